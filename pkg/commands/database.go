package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"tasklist/pkg/store"
)

// Confirm asks a yes/no question on out and reads the answer from in
func Confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s (y/N): ", question)
	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// HandlePurgeCommand removes all tasks, or only completed ones
func HandlePurgeCommand(ctx context.Context, s *store.Store, in io.Reader, out io.Writer, doneOnly, skipConfirm bool) error {
	filter := store.AllTasksFilter
	if doneOnly {
		filter = store.DoneTasksFilter
	}
	victims := store.FilterTasks(s.Tasks(), filter)
	if len(victims) == 0 {
		fmt.Fprintln(out, "Nothing to delete.")
		return nil
	}

	if !skipConfirm && !Confirm(in, out, fmt.Sprintf("Are you sure you want to delete %d task(s)?", len(victims))) {
		fmt.Fprintln(out, "Operation cancelled.")
		return nil
	}

	var lastErr error
	for _, t := range victims {
		if err := s.Remove(ctx, t.ID); err != nil {
			lastErr = err
		}
	}

	fmt.Fprintf(out, "Successfully deleted %d task(s)\n", len(victims))
	return lastErr
}
