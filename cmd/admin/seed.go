package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/hibiken/asynq"

	"studentfolio/internal/database"
	"studentfolio/internal/repository"
	"studentfolio/internal/resume"
	"studentfolio/internal/tasks"
)

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// catalogEntries 返回目录条目：标准版式启用，历史别名保留但不启用。
func catalogEntries() []database.ResumeTemplate {
	out := make([]database.ResumeTemplate, 0, len(resume.Templates)+4)
	for i, t := range resume.Templates {
		out = append(out, database.ResumeTemplate{
			Name:        t.DisplayName(),
			Description: t.Description(),
			TemplateKey: t.String(),
			IsActive:    true,
			SortOrder:   i + 1,
		})
	}

	aliases := resume.Aliases()
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		canonical := aliases[k]
		out = append(out, database.ResumeTemplate{
			Name:        canonical.DisplayName() + " (" + k + ")",
			Description: "Legacy key, rendered as " + canonical.String() + ".",
			TemplateKey: k,
			IsActive:    false,
			SortOrder:   100,
		})
	}
	return out
}

func seedTemplates(ctx context.Context, store repository.TemplateStore) ([]database.ResumeTemplate, error) {
	entries := catalogEntries()
	for i := range entries {
		if err := store.Upsert(ctx, &entries[i]); err != nil {
			return nil, fmt.Errorf("upsert template %s: %w", entries[i].TemplateKey, err)
		}
	}
	return entries, nil
}

func enqueuePreviews(ctx context.Context, client taskEnqueuer, templates []database.ResumeTemplate) (int, error) {
	n := 0
	for _, tpl := range templates {
		if !tpl.IsActive {
			continue
		}
		task, err := tasks.NewTemplatePreviewTask(tpl.ID, "admin-seed")
		if err != nil {
			return n, err
		}
		if _, err := client.EnqueueContext(ctx, task); err != nil {
			return n, fmt.Errorf("enqueue preview for %s: %w", tpl.TemplateKey, err)
		}
		n++
	}
	return n, nil
}
