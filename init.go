package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const skillTemplate = `---
name: jfr
description: >
  JVM profiling with Java Flight Recorder captures: hot methods, flame graphs,
  speedscope export, call trees, thread breakdown, regressions between captures.
allowed-tools: Bash, Read, Grep, Glob
---

# JFR Analysis

Analyze .jfr and .jfr.gz captures with ` + "`{{JFRVIEW_PATH}}`" + `. Run
` + "`{{JFRVIEW_PATH}} --help`" + ` for the full command and flag reference.

## Workflow

1. **Triage**: ` + "`{{JFRVIEW_PATH}} info profile.jfr`" + ` lists events, top threads and hot methods.
2. **Drill down**: ` + "`{{JFRVIEW_PATH}} tree profile.jfr -m HashMap.resize --depth 6 --min-pct 0.5`" + `
3. **Callers**: ` + "`{{JFRVIEW_PATH}} callers profile.jfr -m HashMap.resize`" + `
4. **Lines**: ` + "`{{JFRVIEW_PATH}} lines profile.jfr -m HashMap.resize`" + `
5. **Thread focus**: ` + "`{{JFRVIEW_PATH}} hot profile.jfr -t \"http-nio\" --top 20`" + `
6. **Compare**: ` + "`{{JFRVIEW_PATH}} diff before.jfr after.jfr --min-delta 0.5`" + `
7. **CI gate**: ` + "`{{JFRVIEW_PATH}} hot profile.jfr --assert-below 15.0`" + ` exits 1 if the top method is at or above the threshold.

## Exports

- Flame graph JSON: ` + "`{{JFRVIEW_PATH}} flamegraph profile.jfr`" + ` (` + "`--format pprof -o cpu.pb.gz`" + ` for go tool pprof)
- speedscope: ` + "`{{JFRVIEW_PATH}} speedscope profile.jfr --format speedscope -o profile.speedscope.json`" + `
- Folded tree per thread: ` + "`{{JFRVIEW_PATH}} folded profile.jfr --by-thread`" + `
- Collapsed stacks: ` + "`{{JFRVIEW_PATH}} collapse profile.jfr`" + `

## Sample selection

- ` + "`--event cpu`" + ` (default) reads ` + "`jdk.ExecutionSample`" + ` events; ` + "`--event wall`" + ` reads
  ` + "`profiler.WallClockSample`" + ` events, which include threads blocked on I/O, locks and sleeps.
  ` + "`--event malloc`" + ` reads async-profiler ` + "`profiler.Malloc`" + ` events, one sample per allocation.
- ` + "`--native`" + ` adds ` + "`jdk.NativeMethodSample`" + ` events to counts. The JFR reader does not decode
  that class, so the flag has no effect on .jfr input.
- ` + "`-t THREAD`" + ` keeps threads whose name contains the substring.
- ` + "`--where EXPR`" + ` keeps samples for which a Starlark expression over ` + "`thread`" + `,
  ` + "`frames`" + ` (root-first), ` + "`native`" + ` and ` + "`start`" + ` is true.
- ` + "`--lenient`" + ` skips undecodable events instead of failing.

## Interpretation

- **Self% close to Total%**: leaf method, the cost is in the method itself.
- **Total% much larger than Self%**: entry point, drill into ` + "`tree`" + ` to find the real cost.
- Always start with ` + "`info`" + `. Quote specific numbers. Mention the thread if ` + "`-t`" + ` was used.
`

// agent skill directories relative to a base dir (home or project root)
var agentSkillDirs = map[string]string{
	"claude": filepath.Join(".claude", "skills", "jfr"),
	"codex":  filepath.Join(".agents", "skills", "jfr"),
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Install a skill file that teaches coding agents to use " + appName,
	Long: `Writes SKILL.md into the skill directory of each detected agent (~/.claude or
~/.agents). --project installs under the working directory instead of home.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdInit(cmd.OutOrStdout(), cmd.ErrOrStderr(), initFlags)
	},
}

type initOpts struct {
	force   bool
	project bool
	claude  bool
	codex   bool
	stdout  bool
}

var initFlags initOpts

func init() {
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "overwrite an existing skill file")
	initCmd.Flags().BoolVar(&initFlags.project, "project", false, "install into the current directory instead of home")
	initCmd.Flags().BoolVar(&initFlags.claude, "claude", false, "install for Claude (.claude/skills)")
	initCmd.Flags().BoolVar(&initFlags.codex, "codex", false, "install for Codex (.agents/skills)")
	initCmd.Flags().BoolVar(&initFlags.stdout, "stdout", false, "print the skill instead of installing it")
	rootCmd.AddCommand(initCmd)
}

func renderSkill(binPath string) string {
	return strings.ReplaceAll(skillTemplate, "{{JFRVIEW_PATH}}", binPath)
}

func cmdInit(stdout, stderr io.Writer, opts initOpts) error {
	exe, err := os.Executable()
	if err != nil {
		return errors.Wrapf(err, "cannot determine %s path", appName)
	}
	binPath, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return errors.Wrapf(err, "cannot resolve %s path", appName)
	}
	content := renderSkill(binPath)

	if opts.stdout {
		_, err := io.WriteString(stdout, content)
		return err
	}

	var baseDir string
	if opts.project {
		baseDir, err = os.Getwd()
	} else {
		baseDir, err = os.UserHomeDir()
	}
	if err != nil {
		return errors.Wrap(err, "cannot determine install directory")
	}

	targets := resolveTargets(baseDir, opts.claude, opts.codex)
	if len(targets) == 0 {
		return errors.New("no agent configuration found (neither .claude nor .agents exists); use --claude or --codex to create one")
	}
	for _, t := range targets {
		path, err := writeSkill(baseDir, t, content, opts.force)
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Skill installed: %s\n", path)
	}
	return nil
}

// resolveTargets picks the agents to install for. Explicit flags win;
// otherwise every agent whose config dir exists under baseDir is chosen.
func resolveTargets(baseDir string, claude, codex bool) []string {
	var targets []string
	if claude || codex {
		if claude {
			targets = append(targets, "claude")
		}
		if codex {
			targets = append(targets, "codex")
		}
		return targets
	}
	for _, agent := range []string{"claude", "codex"} {
		configDir := filepath.Join(baseDir, strings.SplitN(agentSkillDirs[agent], string(filepath.Separator), 2)[0])
		if _, err := os.Stat(configDir); err == nil {
			targets = append(targets, agent)
		}
	}
	return targets
}

func writeSkill(baseDir, agent, content string, force bool) (string, error) {
	skillDir := filepath.Join(baseDir, agentSkillDirs[agent])
	if err := os.MkdirAll(skillDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "cannot create directory %s", skillDir)
	}
	skillPath := filepath.Join(skillDir, "SKILL.md")
	if _, err := os.Stat(skillPath); err == nil && !force {
		return "", errors.Errorf("%s already exists (use --force to overwrite)", skillPath)
	}
	if err := os.WriteFile(skillPath, []byte(content), 0o644); err != nil {
		return "", errors.Wrapf(err, "cannot write %s", skillPath)
	}
	return skillPath, nil
}
