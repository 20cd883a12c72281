package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Project is the optional `forge.yaml` project configuration (spec
// §10.3): the module loader's source search list, the async
// scheduler's worker pool size, and the float-equality epsilon the
// Evaluator's deep-equality check uses (spec §9 "Deep inheritance ...
// equality").
type Project struct {
	SourceDirs   []string `yaml:"sourceDirs"`
	WorkerPoolSize int    `yaml:"workerPoolSize"`
	FloatEpsilon float64  `yaml:"floatEpsilon"`
}

// DefaultProject is used when no forge.yaml is present.
func DefaultProject() Project {
	return Project{
		SourceDirs:     []string{"."},
		WorkerPoolSize: 8,
		FloatEpsilon:   1e-9,
	}
}

// LoadProject reads and parses a forge.yaml project file. A missing
// file is not an error — callers get DefaultProject() instead.
func LoadProject(path string) (Project, error) {
	p := DefaultProject()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, err
	}
	if p.WorkerPoolSize <= 0 {
		p.WorkerPoolSize = DefaultProject().WorkerPoolSize
	}
	if p.FloatEpsilon <= 0 {
		p.FloatEpsilon = DefaultProject().FloatEpsilon
	}
	if len(p.SourceDirs) == 0 {
		p.SourceDirs = DefaultProject().SourceDirs
	}
	return p, nil
}
