//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

// Build compiles every executable into ./bin
func Build() error {
	mg.Deps(BuildTrigger)
	mg.Deps(BuildScanThresholds)
	fmt.Println("Compilation finished")
	return nil
}

func BuildTrigger() error {
	fmt.Println("Building trigger executable...")
	return buildWithCgo("./bin/trigger", "./trigger")
}

func BuildScanThresholds() error {
	fmt.Println("Building scanThresholds executable...")
	return buildWithCgo("./bin/scanThresholds", "./scanThresholds")
}

// Test runs the unit tests of the trigger package
func Test() error {
	return runWithCgo("go", "test", "./pkg/...")
}

func buildWithCgo(output string, pkg string) error {
	return runWithCgo("go", "build", "-o", output, pkg)
}

// hdf5 bindings need cgo and the flags pointing to the local hdf5 install
func runWithCgo(name string, args ...string) error {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
