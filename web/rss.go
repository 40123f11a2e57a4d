package web

import (
	"context"
	"fmt"
	"time"

	"github.com/deemkeen/bnotas/domain"
	"github.com/deemkeen/bnotas/util"
	"github.com/gorilla/feeds"
)

// NoteLister is the part of the notes API the feed needs.
type NoteLister interface {
	ListNotes(ctx context.Context) ([]domain.Note, error)
}

// GetReminderFeed renders the notes that carry a reminder as RSS, in the
// same order the dashboard shows them: overdue, urgent, then the rest.
func GetReminderFeed(ctx context.Context, conf *util.AppConfig, lister NoteLister, feedToken string, now time.Time) (string, error) {
	notes, err := lister.ListNotes(ctx)
	if err != nil {
		return "", err
	}

	link := fmt.Sprintf("%s/feed/%s", conf.BaseURL(), feedToken)
	feed := &feeds.Feed{
		Title:       "bnotas · Lembretes",
		Link:        &feeds.Link{Href: link},
		Description: "Notas com lembrete",
		Created:     now,
	}

	var feedItems []*feeds.Item
	for _, note := range domain.FilterNotes(notes, "", domain.TabAll, now) {
		if !note.HasReminder() {
			continue
		}
		status := domain.Status(note, now)
		title := note.Title
		if status != domain.StatusNormal {
			title = fmt.Sprintf("[%s] %s", status.Label(), note.Title)
		}
		feedItems = append(feedItems,
			&feeds.Item{
				Id:          fmt.Sprintf("%s#%d", link, note.Id),
				Title:       title,
				Link:        &feeds.Link{Href: fmt.Sprintf("%s#%d", link, note.Id)},
				Description: "Lembrete: " + util.FormatDateDisplay(note.ReminderAt),
				Content:     note.Content,
				Created:     note.CreatedAt,
				Updated:     *note.ReminderAt,
			})
	}

	feed.Items = feedItems
	return feed.ToRss()
}
