package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"eyec/internal/driver"
	"eyec/internal/logging"
)

var defaultShimTools = []string{"cc", "c++", "gcc", "g++", "ar"}

type shimsOptions struct {
	tools  []string
	force  bool
	target string // wrapper binary; defaults to the running executable
}

func newShimsCmd(_ *rootOptions) *cobra.Command {
	o := &shimsOptions{}
	cmd := &cobra.Command{
		Use:   "shims DIR",
		Short: "Create toolchain shims that route through eyec",
		Long: `Creates one symlink per tool in DIR, each pointing at this eyec binary.
Put DIR first on the PATH and every build that calls those tools gets
recorded:

  eyec shims ~/.eyec/bin
  export PATH=~/.eyec/bin:$PATH`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.target == "" {
				self, err := driver.Self()
				if err != nil {
					return err
				}
				o.target = self
			}
			created, err := installShims(args[0], o)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range created {
				fmt.Fprintf(out, "  %s -> %s\n", p, o.target)
			}
			fmt.Fprintf(out, "\nexport PATH=%s:$PATH\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&o.tools, "tools", defaultShimTools, "Tool names to shim")
	cmd.Flags().BoolVar(&o.force, "force", false, "Replace existing files in DIR")
	return cmd
}

// installShims links each tool name in dir to o.target and returns the
// created paths.
func installShims(dir string, o *shimsOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	log := logging.New("shims")
	created := make([]string, 0, len(o.tools))
	for _, tool := range o.tools {
		if tool == "" || tool != filepath.Base(tool) || tool == selfName {
			return created, fmt.Errorf("invalid tool name %q", tool)
		}
		path := filepath.Join(dir, tool)
		if _, err := os.Lstat(path); err == nil {
			if !o.force {
				return created, fmt.Errorf("%s already exists (use --force to replace)", path)
			}
			if err := os.Remove(path); err != nil {
				return created, err
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return created, err
		}
		if err := os.Symlink(o.target, path); err != nil {
			return created, fmt.Errorf("link %s: %w", tool, err)
		}
		log.Debug("shim created", "path", path, "target", o.target)
		created = append(created, path)
	}
	return created, nil
}
