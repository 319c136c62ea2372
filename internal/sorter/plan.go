package sorter

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileTask is the unit of work for one worker.
type FileTask struct {
	Source string // full path of the source file
	Name   string // base name, reused at the destination
	Ext    string
	Target string // cleaned root/<ext>
	Size   int64
}

// Plan is the classified listing of a source directory.
type Plan struct {
	Source string
	Target string
	Tasks  []FileTask
	// Skipped holds regular files without an extension.
	Skipped []string
	// Ignored holds directories and other non-regular entries.
	Ignored []string
}

// NewPlan validates sourceDir and classifies its immediate entries against
// targetRoot without touching the target. Entries are visited in name order.
func NewPlan(fs afero.Fs, sourceDir, targetRoot string) (*Plan, error) {
	if err := validateSource(fs, sourceDir); err != nil {
		return nil, err
	}
	return readPlan(fs, sourceDir, targetRoot)
}

// ByExtension groups the planned tasks by extension.
func (p *Plan) ByExtension() map[string][]FileTask {
	groups := make(map[string][]FileTask)
	for _, t := range p.Tasks {
		groups[t.Ext] = append(groups[t.Ext], t)
	}
	return groups
}

func validateSource(fs afero.Fs, sourceDir string) error {
	info, err := fs.Stat(sourceDir)
	if err != nil {
		return fmt.Errorf("source %s: %w", sourceDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %s: %w", sourceDir, ErrSourceNotDirectory)
	}
	return nil
}

func readPlan(fs afero.Fs, sourceDir, targetRoot string) (*Plan, error) {
	entries, err := afero.ReadDir(fs, sourceDir)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", sourceDir, err)
	}

	plan := &Plan{Source: sourceDir, Target: targetRoot}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Mode().IsRegular() {
			plan.Ignored = append(plan.Ignored, name)
			continue
		}
		target, ok := TargetDirFor(targetRoot, name)
		if !ok {
			plan.Skipped = append(plan.Skipped, name)
			continue
		}
		ext, _ := Extension(name)
		plan.Tasks = append(plan.Tasks, FileTask{
			Source: filepath.Join(sourceDir, name),
			Name:   name,
			Ext:    ext,
			Target: target,
			Size:   entry.Size(),
		})
	}
	return plan, nil
}
