package logger

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("New", func() {
	It("logs at info level by default", func() {
		var buf bytes.Buffer
		log := New(WithWriter(&buf))

		log.Debug("hidden")
		log.Info("shown")

		Expect(buf.String()).NotTo(ContainSubstring("hidden"))
		Expect(buf.String()).To(ContainSubstring("shown"))
	})

	It("enables debug output with WithDebug", func() {
		var buf bytes.Buffer
		log := New(WithDebug(true), WithWriter(&buf))

		log.Debug("visible now")

		Expect(buf.String()).To(ContainSubstring("visible now"))
	})

	It("emits JSON records with WithJSON", func() {
		var buf bytes.Buffer
		log := New(WithJSON(true), WithWriter(&buf))

		log.Info("structured", "owner", "session-1")

		var entry map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &entry)).To(Succeed())
		Expect(entry["msg"]).To(Equal("structured"))
		Expect(entry["owner"]).To(Equal("session-1"))
	})

	It("fans out to every writer with WithWriters", func() {
		var a, b bytes.Buffer
		log := New(WithWriters(&a, &b))

		log.Info("both places")

		Expect(a.String()).To(ContainSubstring("both places"))
		Expect(b.String()).To(ContainSubstring("both places"))
	})
})

var _ = Describe("Multi", func() {
	It("dispatches each record to every underlying handler", func() {
		var text, structured bytes.Buffer
		log := Multi(
			New(WithWriter(&text)),
			New(WithJSON(true), WithWriter(&structured)),
		)

		log.Info("fan out")

		Expect(text.String()).To(ContainSubstring("fan out"))
		Expect(structured.String()).To(ContainSubstring(`"msg":"fan out"`))
	})

	It("respects each handler's level independently", func() {
		var quiet, verbose bytes.Buffer
		log := Multi(
			New(WithWriter(&quiet)),
			New(WithDebug(true), WithWriter(&verbose)),
		)

		log.Debug("details")

		Expect(quiet.String()).To(BeEmpty())
		Expect(verbose.String()).To(ContainSubstring("details"))
	})

	It("carries attrs added after construction to every handler", func() {
		var a, b bytes.Buffer
		log := Multi(
			New(WithWriter(&a)),
			New(WithWriter(&b)),
		).With("owner", "agent-1")

		log.Info("tagged")

		Expect(a.String()).To(ContainSubstring("agent-1"))
		Expect(b.String()).To(ContainSubstring("agent-1"))
	})
})
