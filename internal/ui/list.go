package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/assetd/internal/models"
)

var _ list.Item = recordItem{}

// recordItem wraps [models.AccessRecord] to implement [list.Item].
type recordItem struct {
	record models.AccessRecord
}

func (i recordItem) FilterValue() string { return i.record.URL }
func (i recordItem) Title() string {
	return fmt.Sprintf("%s %s -> %s", i.record.Method, i.record.URL, Styles.Status(i.record.Status))
}
func (i recordItem) Description() string {
	return fmt.Sprintf("%s • %d bytes • %v • %s",
		i.record.CreatedAt.Local().Format("15:04:05"), i.record.Bytes, i.record.Duration, i.record.RemoteAddr)
}
