package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// versionsFilePaths are tried in order; the first readable one wins.
var versionsFilePaths = []string{"versions.yaml", "../versions.yaml", "../../versions.yaml"}

// versionInfo is printed by the version command
type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// versionsFile mirrors versions.yaml
type versionsFile struct {
	Project struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
		Branch string `yaml:"branch"`
	} `yaml:"git"`
	Build struct {
		Time      string `yaml:"time"`
		GoVersion string `yaml:"go_version"`
	} `yaml:"build"`
}

func runVersion(args []string, stdout, stderr io.Writer) int {
	format, err := parseVersionFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFormat, err)
		return ExitCodeUsageError
	}

	info := currentVersion(versionsFilePaths)

	if format == OutputFormatJSON {
		out, _ := json.MarshalIndent(info, "", "  ")
		fmt.Fprintln(stdout, string(out))
		return ExitCodeSuccess
	}

	fmt.Fprintf(stdout, VersionTextTemplate+FmtNewline,
		info.Version, info.Commit, info.Branch, info.BuildTime, info.GoVersion)
	return ExitCodeSuccess
}

func parseVersionFlags(args []string) (string, error) {
	fs := flag.NewFlagSet(CmdNameVersion, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var format string
	fs.StringVar(&format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if format != OutputFormatText && format != OutputFormatJSON {
		return "", errors.New(ErrMsgInvalidFormat)
	}
	return format, nil
}

// currentVersion reads the first parseable versions file among paths and
// falls back to "unknown" fields and the running Go version.
func currentVersion(paths []string) versionInfo {
	info := versionInfo{
		Version:   VersionUnknown,
		Commit:    VersionUnknown,
		Branch:    VersionUnknown,
		BuildTime: VersionUnknown,
		GoVersion: runtime.Version(),
	}

	for _, path := range paths {
		vf, err := readVersionsFile(path)
		if err != nil {
			continue
		}
		if vf.Project.Version != "" {
			info.Version = vf.Project.Version
		}
		if vf.Git.Commit != "" {
			info.Commit = vf.Git.Commit
		}
		if vf.Git.Branch != "" {
			info.Branch = vf.Git.Branch
		}
		if vf.Build.Time != "" {
			info.BuildTime = vf.Build.Time
		}
		if vf.Build.GoVersion != "" {
			info.GoVersion = vf.Build.GoVersion
		}
		break
	}

	return info
}

func readVersionsFile(path string) (*versionsFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var vf versionsFile
	if err := yaml.Unmarshal(raw, &vf); err != nil {
		return nil, err
	}
	return &vf, nil
}
