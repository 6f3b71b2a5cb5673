package main

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"text/template"
)

//go:embed templates/*.gotmpl
var templates embed.FS

const coreTemplate = "core.gotmpl"

// guestEnv selects the WASI preview 1 target.
var guestEnv = []string{"GOOS=wasip1", "GOARCH=wasm"}

// defaultConstructor is the function called to create the core when
// Builder.Constructor is empty.
const defaultConstructor = "New"

type Builder struct {
	WorkDir     string
	Package     string
	PackageName string
	Output      string
	// Constructor is a function of Package taking no arguments and returning
	// an api.Core.
	Constructor string
}

// Prepare creates a module in WorkDir whose main package registers the core
// returned by Package's Constructor function.
func (b *Builder) Prepare() error {
	err := os.MkdirAll(b.WorkDir, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create workdir %s: %w", b.WorkDir, err)
	}

	err = b.exec(nil, "go", "mod", "init", b.PackageName)
	if err != nil {
		return fmt.Errorf("failed to init go module: %w", err)
	}

	err = b.exec(nil, "go", "get", b.Package)
	if err != nil {
		return fmt.Errorf("failed to get package %s: %w", b.Package, err)
	}

	err = b.writeTemplate(filepath.Join(b.WorkDir, "main.go"), coreTemplate, b.templateData())
	if err != nil {
		return fmt.Errorf("failed to write template %s: %w", coreTemplate, err)
	}

	err = b.exec(nil, "go", "mod", "tidy")
	if err != nil {
		return fmt.Errorf("failed to tidy go module: %w", err)
	}

	return nil
}

func (b *Builder) templateData() map[string]any {
	constructor := b.Constructor
	if constructor == "" {
		constructor = defaultConstructor
	}
	return map[string]any{
		"UpstreamPackage": b.Package,
		"Constructor":     constructor,
	}
}

// Build compiles the prepared module as a wasip1 reactor.
func (b *Builder) Build() error {
	output, err := filepath.Abs(b.Output)
	if err != nil {
		return fmt.Errorf("failed to get absolute path of output file %s: %w", b.Output, err)
	}

	err = b.exec(guestEnv, "go", "build", "-buildmode=c-shared", "-o", output, ".")
	if err != nil {
		return fmt.Errorf("failed to build package %s: %w", b.Package, err)
	}

	return nil
}

func (b *Builder) Clean() error {
	err := os.RemoveAll(b.WorkDir)
	if err != nil {
		return fmt.Errorf("failed to remove workdir %s: %w", b.WorkDir, err)
	}

	return nil
}

func (b *Builder) exec(env []string, command string, args ...string) error {
	cmd := exec.Command(command, args...)
	cmd.Dir = b.WorkDir
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

func (b *Builder) writeTemplate(dst, templateName string, data interface{}) error {
	tmpl, err := template.ParseFS(templates, path.Join("templates", templateName))
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, templateName, data)
	if err != nil {
		return fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	err = os.WriteFile(dst, buf.Bytes(), 0o644)
	if err != nil {
		return fmt.Errorf("failed to write template %s: %w", dst, err)
	}

	return nil
}
