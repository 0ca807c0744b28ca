// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	TargetsFileNotFoundId Id = iota + 1
	FlagConflictId
	StaleEnvId
	InterpreterNotFoundId
	InterpreterMismatchId
	CommandFailedId
)

type MarkdownMsg string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id    Id          // ID used to look up the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	targetsFileNotFoundIssue = &Issue{
		id: TargetsFileNotFoundId,
		mdMsg: `
# No targets file found!

gotox needs a targets file describing the environments to run.

## Things you can try:
- Create a gotox.toml in your project directory:
~~~toml
[tox]
envlist = ["py311"]

[env.py311]
base_python = "python3.11"
deps = ["pytest"]
commands = ["pytest -q"]
~~~

- Or point gotox at an existing file:
~~~
$ gotox run -c path/to/gotox.toml
~~~`,
	}

	flagConflictIssue = &Issue{
		id: FlagConflictId,
		mdMsg: `
# Conflicting flags!

The requested run modes cannot be combined.

## Rules:
- ` + "`--print-deps-only`" + ` is a deprecated alias for ` + "`--print-deps-to -`" + ` and
  cannot be combined with an explicit ` + "`--print-deps-to`" + `.
- ` + "`--current-env`" + ` runs tests and cannot be combined with a
  dependency-printing mode.

## Things you can try:
- Drop the deprecated flag:
~~~
$ gotox run --print-deps-to -
~~~`,
	}

	staleEnvIssue = &Issue{
		id: StaleEnvId,
		mdMsg: `
# Stale environment detected!

The on-disk environment was provisioned by a different run mode than the one
you requested now. Mixing modes without a reset risks running against a
half-valid environment, so gotox refuses.

## Things you can try:
- Re-run with recreate to wipe and rebuild the environment:
~~~
$ gotox run -r
~~~

- Or remove the environment directory by hand (it lives under .gotox/).`,
	}

	interpreterNotFoundIssue = &Issue{
		id: InterpreterNotFoundId,
		mdMsg: `
# Interpreter not found!

The requested Python interpreter could not be located, or its version could
not be determined.

## Things you can try:
- Check that the interpreter is installed and on PATH:
~~~
$ python3.11 --version
~~~

- Pin a different interpreter in your targets file:
~~~toml
[env.py311]
base_python = "python3.11"
~~~`,
	}

	interpreterMismatchIssue = &Issue{
		id: InterpreterMismatchId,
		mdMsg: `
# Interpreter version mismatch!

The interpreter running this session does not match the version the target
environment requests. This is not a lookup failure: the interpreter exists,
its version is just wrong, so no interpreter search will fix it.

## Things you can try:
- Run gotox under the requested interpreter version
- Change base_python in your targets file to match the available interpreter
- Run the environment without --current-env so a real virtualenv is built`,
	}

	commandFailedIssue = &Issue{
		id: CommandFailedId,
		mdMsg: `
# Test command failed!

One of the configured commands exited with a non-zero status.

## Things you can try:
- Run with verbose mode for more details:
~~~
$ gotox run -v
~~~

- Run the command manually inside the environment's bin directory`,
	}

	issues = map[Id]*Issue{
		targetsFileNotFoundIssue.Id(): targetsFileNotFoundIssue,
		flagConflictIssue.Id():        flagConflictIssue,
		staleEnvIssue.Id():            staleEnvIssue,
		interpreterNotFoundIssue.Id(): interpreterNotFoundIssue,
		interpreterMismatchIssue.Id(): interpreterMismatchIssue,
		commandFailedIssue.Id():       commandFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
