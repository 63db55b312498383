package session

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/strataco/strata/pkg/record"
	testutils "github.com/strataco/strata/pkg/utils/test"
)

var _ = Describe("Store", func() {
	var (
		s   *Store
		ctx context.Context
	)

	BeforeEach(func() {
		s = NewStore("sess-1")
		ctx = context.Background()
	})

	Describe("AddMessage", func() {
		It("appends to the window and counts the interaction", func() {
			r, err := s.AddMessage(ctx, "we discussed the rollout yesterday", record.KindEpisodic)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Kind).To(Equal(record.KindEpisodic))
			Expect(r.Scope).To(Equal(record.SessionScope("sess-1")))

			Expect(s.Window()).To(HaveLen(1))
			Expect(s.GetStatistics().Interactions).To(Equal(1))
		})

		It("classifies untyped messages lexically", func() {
			r, err := s.AddMessage(ctx, "i prefer tabs over spaces", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Kind).To(Equal(record.KindPreference))

			r, err = s.AddMessage(ctx, "random chatter goes here", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Kind).To(Equal(record.KindContextual))
		})

		It("rejects empty content", func() {
			_, err := s.AddMessage(ctx, "", "")
			Expect(err).To(HaveOccurred())
		})

		It("never lets the window exceed its capacity", func() {
			for i := range 3 * DefaultWindowSize {
				_, err := s.AddMessage(ctx, fmt.Sprintf("message number %d", i), record.KindContextual)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(len(s.Window())).To(Equal(DefaultWindowSize))
		})
	})

	Describe("window eviction ordering", func() {
		It("keeps all high records and the newest medium records on overflow", func() {
			s = NewStore("sess-evict", WithWindowSize(20))

			base := time.Now().Add(-time.Hour)
			mk := func(i int, imp record.Importance) record.Record {
				r := testutils.NewTestRecord(fmt.Sprintf("entry %d", i), imp)
				r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
				return r
			}

			var highIDs []string
			for i := range 5 {
				r := mk(i, record.ImportanceHigh)
				highIDs = append(highIDs, r.ID)
				s.window = append(s.window, r)
			}
			var mediumIDs []string
			for i := 5; i < 25; i++ {
				r := mk(i, record.ImportanceMedium)
				mediumIDs = append(mediumIDs, r.ID)
				s.window = append(s.window, r)
			}

			s.trimWindow()

			kept := make(map[string]bool)
			for _, r := range s.window {
				kept[r.ID] = true
			}

			Expect(s.window).To(HaveLen(20))
			for _, id := range highIDs {
				Expect(kept).To(HaveKey(id))
			}
			// The 5 oldest medium records are the ones evicted.
			for _, id := range mediumIDs[:5] {
				Expect(kept).NotTo(HaveKey(id))
			}
			for _, id := range mediumIDs[5:] {
				Expect(kept).To(HaveKey(id))
			}
		})
	})

	Describe("WithWindowSize", func() {
		It("clamps to the hard ceiling", func() {
			s = NewStore("sess-big", WithWindowSize(500))
			Expect(s.WindowSize()).To(Equal(MaxWindowSize))
		})

		It("ignores non-positive sizes", func() {
			s = NewStore("sess-zero", WithWindowSize(0))
			Expect(s.WindowSize()).To(Equal(DefaultWindowSize))
		})
	})

	Describe("RecentMessages", func() {
		It("returns chronological order even after an overflow reorders the window", func() {
			s = NewStore("sess-recent", WithWindowSize(3))

			base := time.Now().Add(-time.Hour)
			for i := range 5 {
				r := testutils.NewTestRecord(fmt.Sprintf("msg %d", i), record.ImportanceMedium)
				r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
				s.window = append(s.window, r)
				s.trimWindow()
			}

			recent := s.RecentMessages(2)
			Expect(recent).To(HaveLen(2))
			Expect(recent[0].Content).To(Equal("msg 3"))
			Expect(recent[1].Content).To(Equal("msg 4"))
		})
	})

	Describe("topics and goals", func() {
		It("tracks topic frequency from message content", func() {
			_, _ = s.AddMessage(ctx, "kubernetes deployment failed", record.KindContextual)
			_, _ = s.AddMessage(ctx, "kubernetes deployment recovered", record.KindContextual)
			_, _ = s.AddMessage(ctx, "coffee break", record.KindContextual)

			top := s.TopTopics(2)
			Expect(top).To(HaveLen(2))
			Expect(top).To(ContainElements("kubernetes", "deployment"))
		})

		It("detects goal statements once", func() {
			_, _ = s.AddMessage(ctx, "I want to migrate the billing database", record.KindContextual)
			_, _ = s.AddMessage(ctx, "I want to migrate the billing database", record.KindContextual)

			summary := s.GetContextSummary()
			Expect(summary.Goals).To(HaveLen(1))
			Expect(summary.Goals[0]).To(Equal("I want to migrate the billing database"))
		})
	})

	Describe("GetContextSummary", func() {
		It("snapshots intent, mood, and counters", func() {
			_, _ = s.AddMessage(ctx, "kubernetes troubles again today", record.KindContextual)
			s.UpdateIntent("debugging")
			s.UpdateMood("frustrated")

			summary := s.GetContextSummary()
			Expect(summary.SessionID).To(Equal("sess-1"))
			Expect(summary.Intent).To(Equal("debugging"))
			Expect(summary.Mood).To(Equal("frustrated"))
			Expect(summary.Interactions).To(Equal(1))
			Expect(summary.WindowLen).To(Equal(1))
		})
	})

	Describe("GetStatistics", func() {
		It("averages response times", func() {
			s.RecordResponseTime(100 * time.Millisecond)
			s.RecordResponseTime(300 * time.Millisecond)

			stats := s.GetStatistics()
			Expect(stats.AvgResponseTime).To(Equal(200 * time.Millisecond))
		})

		It("reports zero averages with no samples", func() {
			Expect(s.GetStatistics().AvgResponseTime).To(BeZero())
		})
	})

	Describe("Search", func() {
		It("ranks lexically when no semantic collaborators are wired", func() {
			_, _ = s.AddMessage(ctx, "postgres connection pooling configuration", record.KindContextual)
			_, _ = s.AddMessage(ctx, "weekend hiking plans", record.KindContextual)

			results := s.Search(ctx, "postgres configuration", 5)
			Expect(results).To(HaveLen(1))
			Expect(results[0].Content).To(ContainSubstring("postgres"))
		})

		It("includes preferences in the candidate set", func() {
			_, err := s.AddTemporaryPreference("respond with concise postgres examples", record.ImportanceMedium)
			Expect(err).NotTo(HaveOccurred())

			results := s.Search(ctx, "postgres examples", 5)
			Expect(results).To(HaveLen(1))
		})

		It("uses the vector path when collaborators are wired", func() {
			embedder := testutils.NewMockEmbedder()
			vectors := testutils.NewMockVectorDriver()
			s = NewStore("sess-vec", WithSemanticSearch(embedder, vectors))

			r, err := s.AddMessage(ctx, "semantic search target", record.KindContextual)
			Expect(err).NotTo(HaveOccurred())
			Expect(vectors.Documents).To(HaveLen(1))

			vectors.Results = append(vectors.Results, queryResultFor(r))
			results := s.Search(ctx, "anything", 1)
			Expect(results).To(HaveLen(1))
			Expect(results[0].ID).To(Equal(r.ID))
		})
	})

	Describe("expiry and cleanup", func() {
		It("is not expired while active", func() {
			Expect(s.Expired()).To(BeFalse())
		})

		It("expires after the idle limit passes", func() {
			s.mu.Lock()
			s.lastActivity = time.Now().Add(-2 * idleExpiry)
			s.mu.Unlock()
			Expect(s.Expired()).To(BeTrue())
		})

		It("drops all state on cleanup", func() {
			_, _ = s.AddMessage(ctx, "kubernetes something", record.KindContextual)
			_, _ = s.AddTemporaryPreference("short answers please", record.ImportanceHigh)
			s.Cleanup()

			Expect(s.Window()).To(BeEmpty())
			stats := s.GetStatistics()
			Expect(stats.Interactions).To(BeZero())
			Expect(stats.Preferences).To(BeZero())
			Expect(stats.ActiveTopics).To(BeZero())
		})
	})
})
