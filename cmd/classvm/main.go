// Command classvm decodes and interprets JVM class files. It loads every
// .class file reachable from its path arguments, then invokes
// main(String[]) on the named class, exiting 0 on success or 1 on any
// fatal condition.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wevanson/classvm/internal/config"
	"github.com/wevanson/classvm/internal/trace"
	"github.com/wevanson/classvm/internal/vm"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "classvm <path>... <main-class>",
	Short: "Decode and interpret JVM class files",
	Long: `classvm loads one or more .class files (or directories of them)
and runs the main method of the named class.

Each leading argument is a path to a .class file or a directory that is
walked recursively for .class files; the final argument is the binary
name (e.g. com/example/Main) of the class whose main method is invoked.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		trace.SetLevel(cfg.TraceLevel())

		paths, mainClass := args[:len(args)-1], args[len(args)-1]

		registry := vm.NewClassRegistry()
		for _, p := range paths {
			if err := loadPath(registry, p); err != nil {
				return err
			}
		}

		interp := vm.NewInterpreter(registry)
		interp.SetMaxCallStackDepth(cfg.Interpreter.MaxCallStackDepth)
		if err := interp.Run(mainClass); err != nil {
			trace.Error(err.Error())
			return err
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "classvm.toml", "path to an optional TOML config file")
}

// loadPath loads path as a single .class file, or walks it recursively
// loading every .class file found, grounded on the teacher's own
// directory-walking class loader helper in classloader.go.
func loadPath(registry *vm.ClassRegistry, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return loadFile(registry, path)
	}
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".class") {
			return nil
		}
		return loadFile(registry, p)
	})
}

func loadFile(registry *vm.ClassRegistry, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if _, err := registry.Load(data); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func main() {
	trace.Init()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
