package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/pricebook/internal/core"
	"github.com/JonMunkholm/pricebook/internal/pricing"
)

func TestWriteExport(t *testing.T) {
	file := &core.ExportFile{FileName: "acme_pricing_2024-05-01.csv", Data: []byte("type,price"), Rows: 0}

	t.Run("stdout", func(t *testing.T) {
		var out bytes.Buffer
		if err := writeExport(&out, "-", file); err != nil {
			t.Fatalf("writeExport() error = %v", err)
		}
		if out.String() != "type,price" {
			t.Errorf("stdout = %q", out.String())
		}
	})

	t.Run("directory gets generated name", func(t *testing.T) {
		dir := t.TempDir()
		var out bytes.Buffer
		if err := writeExport(&out, dir, file); err != nil {
			t.Fatalf("writeExport() error = %v", err)
		}
		data, err := os.ReadFile(filepath.Join(dir, file.FileName))
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(data) != "type,price" {
			t.Errorf("file = %q", data)
		}
	})

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		if err := writeExport(&bytes.Buffer{}, path, file); err != nil {
			t.Fatalf("writeExport() error = %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Stat() error = %v", err)
		}
	})
}

func TestPrintResult(t *testing.T) {
	var out bytes.Buffer
	err := printResult(&out, &core.ImportResult{
		ImportID:     "imp-1",
		SuccessCount: 1,
		Unchanged:    2,
		Changes:      []pricing.Change{{Kind: pricing.KindBasePrice, EntityID: "d1", OldPrice: "100.00", NewPrice: "150.00"}},
	})
	if err != nil {
		t.Fatalf("printResult() error = %v", err)
	}
	if !strings.Contains(out.String(), "1 updated, 2 unchanged") || !strings.Contains(out.String(), "BASE_PRICE d1: 100.00 -> 150.00") {
		t.Errorf("output = %s", out.String())
	}

	err = printResult(&bytes.Buffer{}, &core.ImportResult{Errors: []string{"Product not found: x"}})
	if !errors.Is(err, errRowErrors) {
		t.Errorf("printResult() error = %v, want errRowErrors", err)
	}
	if exitCode(err) != 2 {
		t.Errorf("exitCode() = %d, want 2", exitCode(err))
	}
}

func TestRootCmd_RequiredFlags(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"import", "--brand", "acme"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "file") {
		t.Errorf("Execute() error = %v, want missing --file", err)
	}
}
