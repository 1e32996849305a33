package domain

import (
	"sort"
	"strings"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier is better)
	ScorePositionBonus = 10.0

	// Title matches outrank description/tag matches
	TitleWeight       = 1.0
	DescriptionWeight = 0.5
	TagWeight         = 0.75
)

// SearchCandidate pairs a bookmark with its match score for a query.
type SearchCandidate struct {
	Bookmark *Bookmark
	Score    float64
}

// ScoreField calculates the match score of a query against one text field.
func ScoreField(queryStr, field string) float64 {
	if queryStr == "" || field == "" {
		return 0.0
	}

	queryStr = strings.ToLower(strings.TrimSpace(queryStr))
	field = strings.ToLower(field)

	// Exact match (highest score)
	if queryStr == field {
		return ScoreExactMatch
	}

	// Prefix match
	if strings.HasPrefix(field, queryStr) {
		return ScorePrefixMatch
	}

	// Substring match
	if strings.Contains(field, queryStr) {
		index := strings.Index(field, queryStr)
		// Earlier substring matches get higher score
		substringBonus := ScorePositionBonus * (1.0 - float64(index)/float64(len(field)))
		return ScoreSubstringMatch + substringBonus
	}

	// Fuzzy match (word-based)
	// Check if all query words appear in the field
	queryWords := strings.Fields(queryStr)
	if len(queryWords) > 1 {
		allMatch := true
		for _, word := range queryWords {
			if !strings.Contains(field, word) {
				allMatch = false
				break
			}
		}
		if allMatch {
			return ScoreFuzzyMatch
		}
	}

	return 0.0
}

// ScoreBookmark calculates the combined match score of a query against a
// bookmark, weighting title over tags over description.
func ScoreBookmark(queryStr string, bookmark *Bookmark) float64 {
	if bookmark == nil || queryStr == "" {
		return 0.0
	}

	score := TitleWeight * ScoreField(queryStr, bookmark.Title)
	score += DescriptionWeight * ScoreField(queryStr, bookmark.Description)

	for _, tag := range strings.Split(bookmark.Tags, ",") {
		if s := TagWeight * ScoreField(queryStr, strings.TrimSpace(tag)); s > 0 {
			score += s
			break // one tag hit is enough, don't stack duplicates
		}
	}

	return score
}

// RankBookmarks ranks bookmarks by score for a query.
// Archived bookmarks never match.
func RankBookmarks(queryStr string, bookmarks []*Bookmark) []*SearchCandidate {
	candidates := make([]*SearchCandidate, 0, len(bookmarks))

	for _, bookmark := range bookmarks {
		if bookmark.IsArchived {
			continue
		}

		score := ScoreBookmark(queryStr, bookmark)
		if score == 0.0 {
			continue
		}

		candidates = append(candidates, &SearchCandidate{
			Bookmark: bookmark,
			Score:    score,
		})
	}

	// Sort candidates by score (descending); ties by title for stable output
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Bookmark.Title < candidates[j].Bookmark.Title
	})

	return candidates
}
