//
//  Copyright 2024 The EmuFS authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//  	http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

// Command emufs mounts a host directory as a read only virtual file system
// and inspects it through the virtual layer : every path below is resolved
// node by node and every stat result carries synthetic identities, exactly
// as an emulated process would see them.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/emufs/emufs"
	"github.com/emufs/emufs/vfs/hostfs"
)

// config is the optional YAML configuration file.
type config struct {
	// Source is the host directory exposed by the mount.
	Source string `yaml:"source"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		source     string
		configPath string
		verbose    bool
	)

	flagSet := pflag.NewFlagSet("emufs", pflag.ContinueOnError)
	flagSet.StringVar(&source, "source", "", "host directory to mount (default: /)")
	flagSet.StringVar(&configPath, "config", "", "path to a YAML configuration file")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printUsage(flagSet)

			return nil
		}

		return err
	}

	if configPath != "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		if source == "" {
			source = cfg.Source
		}

		verbose = verbose || cfg.Verbose
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	args := flagSet.Args()
	if len(args) < 1 {
		printUsage(flagSet)

		return fmt.Errorf("subcommand required")
	}

	mountOpts := []hostfs.Option{hostfs.WithLogger(logger)}
	if source != "" {
		mountOpts = append(mountOpts, hostfs.WithSource(source))
	}

	mnt, err := hostfs.Mount(mountOpts...)
	if err != nil {
		return err
	}

	vfs := emufs.New(emufs.WithLogger(logger))
	if err := vfs.Mount("/", mnt); err != nil {
		return err
	}

	defer func() {
		if err := vfs.Umount("/"); err != nil {
			logger.Error("umount failed", "err", err)
		}
	}()

	path := "/"
	if len(args) > 1 {
		path = args[1]
	}

	switch args[0] {
	case "ls":
		return runLs(vfs, path)
	case "cat":
		return runCat(vfs, path)
	case "stat":
		return runStat(vfs, path)
	default:
		printUsage(flagSet)

		return fmt.Errorf("unknown subcommand: %q", args[0])
	}
}

// runLs lists a virtual directory in the order the host yields it.
func runLs(vfs *emufs.VFS, path string) error {
	ents, err := vfs.ReadDir(path)
	if err != nil {
		return err
	}

	for _, ent := range ents {
		kind := "-"
		if ent.IsDir() {
			kind = "d"
		}

		fmt.Printf("%s %20d %s\n", kind, ent.Ino, ent.Name)
	}

	return nil
}

// runCat copies a virtual file to standard output.
func runCat(vfs *emufs.VFS, path string) error {
	data, err := vfs.ReadFile(path)
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(data)

	return err
}

// runStat prints the virtual identity and metadata of a path.
func runStat(vfs *emufs.VFS, path string) error {
	st, err := vfs.Stat(path)
	if err != nil {
		return err
	}

	fmt.Printf("path:  %s\n", path)
	fmt.Printf("dev:   %d\n", st.Dev)
	fmt.Printf("ino:   %d\n", st.Ino)
	fmt.Printf("mode:  %o\n", st.Mode)
	fmt.Printf("size:  %d\n", st.Size)
	fmt.Printf("links: %d\n", st.Nlink)

	return nil
}

// loadConfig reads the YAML configuration file.
func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

func printUsage(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Usage: emufs [flags] <subcommand> [path]

Subcommands:
  ls     List a directory of the mounted tree
  cat    Copy a file of the mounted tree to standard output
  stat   Print the virtual identity and metadata of a path

Flags:
%s`, flagSet.FlagUsages())
}
