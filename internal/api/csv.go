package api

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
)

// taskCSVHeader is the fixed column set of the task export. The
// notesId column name is part of the export contract consumed by
// downstream spreadsheets.
var taskCSVHeader = []string{"id", "title", "owner", "dueDate", "status", "confidence", "notesId", "createdAt"}

// WriteTasksCSV writes the tasks as CSV, header first. Empty optional
// fields become empty cells; quoting and escaping follow RFC 4180.
func WriteTasksCSV(w io.Writer, tasks []domain.Task) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(taskCSVHeader); err != nil {
		return err
	}

	for _, task := range tasks {
		record := []string{
			task.ID,
			task.Title,
			task.Owner,
			task.DueDate,
			string(task.Status),
			strconv.FormatFloat(task.Confidence, 'g', -1, 64),
			task.NoteID,
			task.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
