package env

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvironmentsFilename is the per-project environments file searched next to
// the script being run.
const EnvironmentsFilename = "smoke.yaml"

type Environment struct {
	Name      string
	Variables map[string]any
}

type environmentsFile struct {
	Environments map[string]map[string]any `yaml:"environments"`
}

// LoadEnvironment reads the named variable set from dir/smoke.yaml. A missing
// file yields an empty environment; a missing name in an existing file is an
// error.
func LoadEnvironment(dir, name string) (*Environment, error) {
	env := &Environment{
		Name:      name,
		Variables: make(map[string]any),
	}
	if name == "" {
		return env, nil
	}

	path := filepath.Join(dir, EnvironmentsFilename)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return env, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var file environmentsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	vars, ok := file.Environments[name]
	if !ok {
		return nil, fmt.Errorf("environment %q not defined in %s", name, path)
	}
	for k, v := range vars {
		env.Variables[k] = v
	}
	return env, nil
}

// LoadDotenv loads a .env file into the process environment so that
// {{$NAME}} expressions can see it.
func LoadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}
