// Package insights builds the read-only dashboard report: submission
// counts, acceptance rate, feedback averages, top-rated talks and tag
// frequencies. Pure aggregation over store reads; it shares nothing
// with the rendering pipeline.
package insights

import (
	"context"
	"sort"

	"github.com/youruser/speakerpack/internal/event"
	"github.com/youruser/speakerpack/internal/store"
)

const (
	topTalkLimit = 10
	topTagLimit  = 10
)

type TalkRating struct {
	TalkID  string  `json:"talkId"`
	Title   string  `json:"title"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// MonthCount is one bucket of the submission trend; Month is "YYYY-MM".
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type Report struct {
	TotalSpeakers   int          `json:"totalSpeakers"`
	TotalTalks      int          `json:"totalTalks"`
	AcceptanceRate  float64      `json:"acceptanceRate"`
	AverageRating   float64      `json:"averageRating"`
	TopRatedTalks   []TalkRating `json:"topRatedTalks"`
	TopTags         []TagCount   `json:"topTags"`
	SubmissionTrend []MonthCount `json:"submissionTrend"`
}

// Collect assembles the report from the current store contents.
func Collect(ctx context.Context, st store.DocumentStore) (Report, error) {
	speakers, err := st.AllSpeakers(ctx)
	if err != nil {
		return Report{}, err
	}
	talks, err := st.AllTalks(ctx)
	if err != nil {
		return Report{}, err
	}
	feedback, err := st.AllFeedback(ctx)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		TotalSpeakers:   len(speakers),
		TotalTalks:      len(talks),
		TopRatedTalks:   []TalkRating{},
		TopTags:         []TagCount{},
		SubmissionTrend: []MonthCount{},
	}

	accepted := 0
	for _, t := range talks {
		if t.Status == event.StatusAccepted {
			accepted++
		}
	}
	if len(talks) > 0 {
		report.AcceptanceRate = float64(accepted) / float64(len(talks)) * 100
	}

	if len(feedback) > 0 {
		total := 0
		for _, f := range feedback {
			total += f.Rating
		}
		report.AverageRating = float64(total) / float64(len(feedback))
	}

	titles := make(map[string]string, len(talks))
	for _, t := range talks {
		titles[t.ID] = t.Title
	}

	type ratingAgg struct {
		total int
		count int
	}
	perTalk := make(map[string]*ratingAgg)
	for _, f := range feedback {
		if f.TalkID == "" {
			continue
		}
		agg := perTalk[f.TalkID]
		if agg == nil {
			agg = &ratingAgg{}
			perTalk[f.TalkID] = agg
		}
		agg.total += f.Rating
		agg.count++
	}
	for talkID, agg := range perTalk {
		// Ratings for talks no longer in the store are dropped.
		title, ok := titles[talkID]
		if !ok {
			continue
		}
		report.TopRatedTalks = append(report.TopRatedTalks, TalkRating{
			TalkID:  talkID,
			Title:   title,
			Average: float64(agg.total) / float64(agg.count),
			Count:   agg.count,
		})
	}
	sort.Slice(report.TopRatedTalks, func(i, j int) bool {
		a, b := report.TopRatedTalks[i], report.TopRatedTalks[j]
		if a.Average != b.Average {
			return a.Average > b.Average
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.TalkID < b.TalkID
	})
	if len(report.TopRatedTalks) > topTalkLimit {
		report.TopRatedTalks = report.TopRatedTalks[:topTalkLimit]
	}

	tagCounts := make(map[string]int)
	for _, t := range talks {
		for _, tag := range t.Tags {
			tagCounts[tag]++
		}
	}
	for tag, count := range tagCounts {
		report.TopTags = append(report.TopTags, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(report.TopTags, func(i, j int) bool {
		a, b := report.TopTags[i], report.TopTags[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Tag < b.Tag
	})
	if len(report.TopTags) > topTagLimit {
		report.TopTags = report.TopTags[:topTagLimit]
	}

	byMonth := make(map[string]int)
	for _, t := range talks {
		if t.SubmittedAt.IsZero() {
			continue
		}
		byMonth[t.SubmittedAt.Format("2006-01")]++
	}
	for month, count := range byMonth {
		report.SubmissionTrend = append(report.SubmissionTrend, MonthCount{Month: month, Count: count})
	}
	sort.Slice(report.SubmissionTrend, func(i, j int) bool {
		return report.SubmissionTrend[i].Month < report.SubmissionTrend[j].Month
	})

	return report, nil
}
