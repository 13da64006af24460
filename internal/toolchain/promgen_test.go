package toolchain

import (
	"errors"
	"reflect"
	"testing"
)

func TestPromgen(t *testing.T) {
	t.Parallel()

	t.Run("builds full command line", func(t *testing.T) {
		t.Parallel()

		cmd, err := Promgen(PromgenOptions{
			Output:          "image.mcs",
			Bitstreams:      map[string]string{"200000": "golden.bit", "0": "top.bit"},
			Device:          "xcf32p",
			Format:          "mcs",
			DisableByteSwap: true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{
			"-x", "xcf32p", "-b", "-w", "-p", "mcs", "-o", "image.mcs",
			"-u", "0", "top.bit", "-u", "200000", "golden.bit",
		}
		if cmd.Name != "promgen" {
			t.Errorf("got name %q, expected promgen", cmd.Name)
		}
		if !reflect.DeepEqual(cmd.Args, want) {
			t.Errorf("got %v, expected %v", cmd.Args, want)
		}
		if !cmd.CheckStderr {
			t.Error("expected stderr checking for promgen")
		}
	})

	t.Run("defaults to bin format", func(t *testing.T) {
		t.Parallel()

		cmd, err := Promgen(PromgenOptions{Output: "image.bin", Bitstreams: map[string]string{"0": "top.bit"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"-w", "-p", "bin", "-o", "image.bin", "-u", "0", "top.bit"}
		if !reflect.DeepEqual(cmd.Args, want) {
			t.Errorf("got %v, expected %v", cmd.Args, want)
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		t.Parallel()

		_, err := Promgen(PromgenOptions{Output: "x", Format: "elf", Bitstreams: map[string]string{"0": "a.bit"}})
		if !errors.Is(err, ErrInvalidPromFormat) {
			t.Errorf("expected ErrInvalidPromFormat, got %v", err)
		}
	})

	t.Run("requires bitstreams", func(t *testing.T) {
		t.Parallel()

		_, err := Promgen(PromgenOptions{Output: "x"})
		if !errors.Is(err, ErrNoBitstreams) {
			t.Errorf("expected ErrNoBitstreams, got %v", err)
		}
	})

	t.Run("requires output", func(t *testing.T) {
		t.Parallel()

		_, err := Promgen(PromgenOptions{Bitstreams: map[string]string{"0": "a.bit"}})
		if !errors.Is(err, ErrNoPromOutput) {
			t.Errorf("expected ErrNoPromOutput, got %v", err)
		}
	})
}
