package models

import (
	"testing"
	"time"
)

func TestPostIsPublished(t *testing.T) {
	p := &Post{Status: PostStatusDraft}
	if p.IsPublished() {
		t.Error("draft should not be published")
	}
	p.Status = PostStatusPublished
	if !p.IsPublished() {
		t.Error("published post should report published")
	}
}

func TestPostIsScheduled(t *testing.T) {
	future := time.Now().Add(time.Hour)

	cases := []struct {
		name string
		post Post
		want bool
	}{
		{"draft without schedule", Post{Status: PostStatusDraft}, false},
		{"draft with schedule", Post{Status: PostStatusDraft, ScheduledAt: &future}, true},
		{"published with schedule", Post{Status: PostStatusPublished, ScheduledAt: &future}, false},
		{"draft with zero schedule", Post{Status: PostStatusDraft, ScheduledAt: &time.Time{}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.post.IsScheduled(); got != tc.want {
				t.Errorf("IsScheduled() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPostDueAt(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	due := &Post{Status: PostStatusDraft, ScheduledAt: &past}
	if !due.DueAt(now) {
		t.Error("past schedule should be due")
	}

	notDue := &Post{Status: PostStatusDraft, ScheduledAt: &future}
	if notDue.DueAt(now) {
		t.Error("future schedule should not be due")
	}

	// Exactly at the scheduled instant counts as due.
	exact := &Post{Status: PostStatusDraft, ScheduledAt: &now}
	if !exact.DueAt(now) {
		t.Error("schedule equal to now should be due")
	}
}

func TestPostClone(t *testing.T) {
	published := time.Now()
	p := &Post{
		Title:       "Original",
		Tags:        []string{"quiz", "horeca"},
		PublishedAt: &published,
	}

	c := p.Clone()
	c.Tags[0] = "changed"
	*c.PublishedAt = published.Add(time.Hour)

	if p.Tags[0] != "quiz" {
		t.Error("clone shares tags slice with original")
	}
	if !p.PublishedAt.Equal(published) {
		t.Error("clone shares published date pointer with original")
	}
}
