package services

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mrlokans/manuscript/internal/entities"
)

// asValidationError converts ozzo-validation output into the domain error
// type. Other errors pass through unchanged.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		var single validation.Error
		if errors.As(err, &single) {
			return entities.NewValidationError("", single.Error())
		}
		return err
	}

	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	if len(fields) == 1 {
		return entities.NewValidationError(fields[0], errs[fields[0]].Error())
	}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+errs[f].Error())
	}
	return entities.NewValidationError(strings.Join(fields, ","), strings.Join(parts, "; "))
}

func chapterStatusRule() validation.Rule {
	values := make([]interface{}, 0, len(entities.ChapterStatuses))
	for _, s := range entities.ChapterStatuses {
		values = append(values, s)
	}
	return validation.In(values...).Error("must be one of: draft, editing, ready")
}

func sourceCategoryRule() validation.Rule {
	values := make([]interface{}, 0, len(entities.SourceCategories))
	for _, c := range entities.SourceCategories {
		values = append(values, c)
	}
	return validation.In(values...).Error("must be one of: notebooklm, docs, notes, website, other")
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
