package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"tasklist/pkg/database"
)

const noDueDateHeader = "No due date:"

// HandleExportCommand writes tasks to filename in the given format
func HandleExportCommand(tasks []database.Task, w io.Writer, filename, exportType string) error {
	content, err := Render(tasks, exportType)
	if err != nil {
		return err
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	if err := os.WriteFile(filename, content, 0644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}

	fmt.Fprintf(w, "Successfully exported %d task(s) to %s\n", len(tasks), filename)
	return nil
}

// Render encodes tasks as json, yaml or txt
func Render(tasks []database.Task, exportType string) ([]byte, error) {
	if tasks == nil {
		tasks = []database.Task{}
	}

	switch exportType {
	case "json":
		content, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("error marshaling tasks to JSON: %w", err)
		}
		return content, nil

	case "yaml", "yml":
		content, err := yaml.Marshal(tasks)
		if err != nil {
			return nil, fmt.Errorf("error marshaling tasks to YAML: %w", err)
		}
		return content, nil

	case "txt":
		var lines []string
		lastDate := "\x00"
		for _, task := range tasks {
			dateStr := noDueDateHeader
			if task.HasDueDate() {
				dateStr = task.DueDate.Local().Format(DateLayout) + ":"
			}
			if dateStr != lastDate {
				lines = append(lines, "", dateStr)
				lastDate = dateStr
			}
			lines = append(lines, checklistLine(task))
		}
		return []byte(strings.TrimSpace(strings.Join(lines, "\n")) + "\n"), nil
	}

	return nil, fmt.Errorf("unknown export type: %s", exportType)
}

func checklistLine(task database.Task) string {
	status := " "
	if task.IsCompleted {
		status = "x"
	}
	line := fmt.Sprintf("- [%s] (%s) %s", status, task.Priority, task.Title)
	if task.Description != "" {
		line += " -- " + task.Description
	}
	return line
}
