package pattern

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/strataco/strata/pkg/record"
	testutils "github.com/strataco/strata/pkg/utils/test"
)

var _ = Describe("CoOccurrence", func() {
	It("returns nothing for an empty set", func() {
		Expect(CoOccurrence(nil)).To(BeEmpty())
	})

	It("finds tokens recurring across records", func() {
		records := []record.Record{
			testutils.NewTestRecord("kubernetes cluster upgrade finished", record.ImportanceMedium),
			testutils.NewTestRecord("kubernetes cluster nodes drained", record.ImportanceMedium),
			testutils.NewTestRecord("kubernetes operator deployed", record.ImportanceMedium),
		}

		patterns := CoOccurrence(records)

		var labels []string
		for _, p := range patterns {
			labels = append(labels, p.Label)
		}
		Expect(labels).To(ContainElement("kubernetes"))

		for _, p := range patterns {
			if p.Label == "kubernetes" {
				Expect(p.Type).To(Equal(TypeCoOccurrence))
				Expect(p.RecordIDs).To(HaveLen(3))
				Expect(p.Strength).To(BeNumerically("==", 1.0))
			}
		}
	})

	It("ignores tokens confined to a single record", func() {
		records := []record.Record{
			testutils.NewTestRecord("singleton singleton singleton appears here", record.ImportanceMedium),
			testutils.NewTestRecord("entirely different words elsewhere", record.ImportanceMedium),
		}

		for _, p := range CoOccurrence(records) {
			Expect(p.Label).NotTo(Equal("singleton"))
		}
	})

	It("drops stop words and short tokens", func() {
		records := []record.Record{
			testutils.NewTestRecord("the and for cat", record.ImportanceMedium),
			testutils.NewTestRecord("the and for dog", record.ImportanceMedium),
			testutils.NewTestRecord("the and for fox", record.ImportanceMedium),
		}
		Expect(CoOccurrence(records)).To(BeEmpty())
	})
})

var _ = Describe("TemporalClusters", func() {
	It("groups records created within the gap", func() {
		records := []record.Record{
			testutils.NewAgedRecord("first burst one", record.ImportanceMedium, 10*time.Hour),
			testutils.NewAgedRecord("first burst two", record.ImportanceMedium, 9*time.Hour),
			testutils.NewAgedRecord("lone straggler", record.ImportanceMedium, 1*time.Hour),
		}

		patterns := TemporalClusters(records)
		Expect(patterns).To(HaveLen(1))
		Expect(patterns[0].Type).To(Equal(TypeTemporalCluster))
		Expect(patterns[0].RecordIDs).To(HaveLen(2))
		Expect(patterns[0].Strength).To(BeNumerically("~", 2.0/3.0, 1e-9))
	})

	It("emits no pattern when every record stands alone", func() {
		records := []record.Record{
			testutils.NewAgedRecord("one", record.ImportanceMedium, 30*time.Hour),
			testutils.NewAgedRecord("two", record.ImportanceMedium, 20*time.Hour),
			testutils.NewAgedRecord("three", record.ImportanceMedium, 10*time.Hour),
		}
		Expect(TemporalClusters(records)).To(BeEmpty())
	})
})

var _ = Describe("TopicCorrelations", func() {
	It("groups records sharing a metadata topic", func() {
		withTopic := func(content, topic string) record.Record {
			return testutils.NewTestRecord(content, record.ImportanceMedium,
				record.WithMetadataValue("topic", topic))
		}

		records := []record.Record{
			withTopic("a", "deploys"),
			withTopic("b", "deploys"),
			withTopic("c", "deploys"),
			withTopic("d", "billing"),
			testutils.NewTestRecord("untopiced", record.ImportanceMedium),
		}

		patterns := TopicCorrelations(records)
		Expect(patterns).To(HaveLen(1))
		Expect(patterns[0].Label).To(Equal("deploys"))
		Expect(patterns[0].RecordIDs).To(HaveLen(3))
		Expect(patterns[0].Strength).To(BeNumerically("~", 3.0/5.0, 1e-9))
	})
})

var _ = Describe("Discover", func() {
	It("combines all analyzer outputs", func() {
		records := []record.Record{
			testutils.NewTestRecord("kubernetes cluster alpha", record.ImportanceMedium,
				record.WithMetadataValue("topic", "infra")),
			testutils.NewTestRecord("kubernetes cluster beta", record.ImportanceMedium,
				record.WithMetadataValue("topic", "infra")),
			testutils.NewTestRecord("kubernetes cluster gamma", record.ImportanceMedium,
				record.WithMetadataValue("topic", "infra")),
		}

		patterns := Discover(records)

		types := make(map[Type]bool)
		for _, p := range patterns {
			types[p.Type] = true
		}
		Expect(types).To(HaveKey(TypeCoOccurrence))
		Expect(types).To(HaveKey(TypeTemporalCluster))
		Expect(types).To(HaveKey(TypeTopicCorrelation))
	})
})
