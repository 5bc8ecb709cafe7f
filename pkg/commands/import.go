package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tasklist/pkg/database"
	"tasklist/pkg/store"
)

var (
	dateRegex     = regexp.MustCompile(`^(?:(\d{2})\.(\d{2})\.(\d{4})|(\d{4})-(\d{2})-(\d{2})):?$`)
	priorityRegex = regexp.MustCompile(`^\((High|Medium|Low)\)\s*`)
)

// HandleImportCommand upserts every task found in filename. The format is
// chosen by extension: .json, .yaml/.yml, anything else is read as a
// checklist text file.
func HandleImportCommand(ctx context.Context, s *store.Store, w io.Writer, filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	tasks, err := Parse(content, filepath.Ext(filename))
	if err != nil {
		return err
	}

	var tasksAdded int
	var saveErr error
	for _, task := range tasks {
		err := s.Update(ctx, task)
		switch {
		case errors.Is(err, store.ErrEmptyTitle):
			fmt.Fprintf(w, "Skipping task without title (id %q)\n", task.ID)
			continue
		case err != nil:
			saveErr = err
		}
		tasksAdded++
	}

	fmt.Fprintf(w, "Successfully imported %d task(s) from %s\n", tasksAdded, filename)
	return saveErr
}

// Parse decodes an export in the format named by ext
func Parse(content []byte, ext string) ([]database.Task, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return database.DecodeTasks(content)
	case ".yaml", ".yml":
		var tasks []database.Task
		if err := yaml.Unmarshal(content, &tasks); err != nil {
			return nil, fmt.Errorf("failed to parse tasks: %w", err)
		}
		return tasks, nil
	default:
		return parseChecklist(string(content)), nil
	}
}

// parseChecklist reads the txt export: date headers followed by
// "- [x] (Priority) Title -- description" lines
func parseChecklist(content string) []database.Task {
	var tasks []database.Task
	var currentDate *time.Time

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == noDueDateHeader {
			currentDate = nil
			continue
		}

		if dateMatch := dateRegex.FindStringSubmatch(line); dateMatch != nil {
			var day, month, year int
			if dateMatch[1] != "" {
				day, _ = strconv.Atoi(dateMatch[1])
				month, _ = strconv.Atoi(dateMatch[2])
				year, _ = strconv.Atoi(dateMatch[3])
			} else {
				year, _ = strconv.Atoi(dateMatch[4])
				month, _ = strconv.Atoi(dateMatch[5])
				day, _ = strconv.Atoi(dateMatch[6])
			}
			d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
			currentDate = &d
			continue
		}

		if !strings.HasPrefix(line, "- ") {
			continue
		}
		taskText := strings.TrimSpace(strings.TrimPrefix(line, "- "))

		status := false
		if strings.HasPrefix(taskText, "[x]") {
			status = true
			taskText = strings.TrimSpace(strings.TrimPrefix(taskText, "[x]"))
		} else if strings.HasPrefix(taskText, "[ ]") {
			taskText = strings.TrimSpace(strings.TrimPrefix(taskText, "[ ]"))
		}

		priority := database.PriorityMedium
		if m := priorityRegex.FindStringSubmatch(taskText); m != nil {
			priority = database.Priority(m[1])
			taskText = taskText[len(m[0]):]
		}

		title, desc, _ := strings.Cut(taskText, " -- ")

		task := database.Task{
			Title:       strings.TrimSpace(title),
			Description: strings.TrimSpace(desc),
			IsCompleted: status,
			Priority:    priority,
		}
		if currentDate != nil {
			d := *currentDate
			task.DueDate = &d
		}
		tasks = append(tasks, task)
	}

	return tasks
}
