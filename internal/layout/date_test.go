package layout

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("date detection", func() {
	textLines := func(texts ...string) []line {
		lines := make([]line, len(texts))
		for i, t := range texts {
			lines[i].text = t
		}
		return lines
	}

	It("finds a slash-separated date", func() {
		Expect(findDate(textLines("Store A", "12/31/2024 14:02"), "")).To(Equal("12/31/2024"))
	})

	It("finds a dash-separated date with a two-digit year", func() {
		Expect(findDate(textLines("1-5-24 REG 4"), "")).To(Equal("1-5-24"))
	})

	It("finds a year-first date", func() {
		Expect(findDate(textLines("2024-12-31"), "")).To(Equal("2024-12-31"))
	})

	It("finds a month-name date and keeps it verbatim", func() {
		Expect(findDate(textLines("Jan. 5, 2024"), "")).To(Equal("Jan. 5, 2024"))
		Expect(findDate(textLines("visited 5 Jan 2024"), "")).To(Equal("5 Jan 2024"))
	})

	It("prefers the earlier pattern when a line matches several", func() {
		Expect(findDate(textLines("2024-01-05 3/4/25"), "")).To(Equal("3/4/25"))
	})

	It("takes the topmost matching line", func() {
		Expect(findDate(textLines("no date here", "02/03/2024", "04/05/2024"), "")).To(Equal("02/03/2024"))
	})

	It("falls back to the raw full text", func() {
		Expect(findDate(textLines("no", "date"), "printed 06/07/2024")).To(Equal("06/07/2024"))
	})

	It("returns empty when nothing matches", func() {
		Expect(findDate(textLines("no date at all"), "still none")).To(BeEmpty())
	})
})
