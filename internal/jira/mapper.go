package jira

import (
	"encoding/json"

	"chainflow/internal/warehouse"

	"github.com/rs/zerolog/log"
)

// FlattenChangelog turns changelog entries into one warehouse row per
// (entry, field) change. Entries whose timestamp cannot be parsed are dropped
// with a warning rather than poisoning the upsert.
func FlattenChangelog(issueKey string, histories []HistoryDTO) []warehouse.ChangelogRow {
	var rows []warehouse.ChangelogRow
	for _, h := range histories {
		created, err := ParseTime(h.Created)
		if err != nil {
			log.Warn().Str("issue", issueKey).Str("entry", h.ID).Str("created", h.Created).
				Msg("Unparseable changelog timestamp, dropping entry")
			continue
		}
		for _, item := range h.Items {
			rows = append(rows, warehouse.ChangelogRow{
				ID:                h.ID,
				IssueKey:          issueKey,
				Created:           created,
				AuthorAccountID:   h.Author.AccountID,
				AuthorDisplayName: h.Author.DisplayName,
				Field:             item.Field,
				FieldType:         item.FieldType,
				FromValue:         item.From,
				FromString:        item.FromString,
				ToValue:           item.To,
				ToString:          item.ToString,
			})
		}
	}
	return rows
}

// ExtractLinks pulls directed issue links out of the fields.issuelinks array.
// Outward links point from this issue; inward links point to it.
func ExtractLinks(issueKey string, rawFields []byte) []warehouse.LinkRow {
	var bag struct {
		IssueLinks []struct {
			Type struct {
				Name string `json:"name"`
			} `json:"type"`
			OutwardIssue *struct {
				Key string `json:"key"`
			} `json:"outwardIssue"`
			InwardIssue *struct {
				Key string `json:"key"`
			} `json:"inwardIssue"`
		} `json:"issuelinks"`
	}
	if err := json.Unmarshal(rawFields, &bag); err != nil {
		return nil
	}

	var links []warehouse.LinkRow
	for _, l := range bag.IssueLinks {
		if l.OutwardIssue != nil {
			links = append(links, warehouse.LinkRow{
				SourceIssueKey: issueKey,
				TargetIssueKey: l.OutwardIssue.Key,
				LinkType:       l.Type.Name,
			})
		}
		if l.InwardIssue != nil {
			links = append(links, warehouse.LinkRow{
				SourceIssueKey: l.InwardIssue.Key,
				TargetIssueKey: issueKey,
				LinkType:       l.Type.Name,
			})
		}
	}
	return links
}
