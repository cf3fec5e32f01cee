package layout

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("name sanitation", func() {
	It("strips long digit runs", func() {
		Expect(sanitizeName("SODA 123456789012 4PK")).To(Equal("SODA 4PK"))
	})

	It("strips a trailing single-letter register code", func() {
		Expect(sanitizeName("MILK 00123 R")).To(Equal("MILK"))
	})

	It("trims edge punctuation and collapses whitespace", func() {
		Expect(sanitizeName("  *GRN  BEANS*  ")).To(Equal("GRN BEANS"))
	})

	It("reduces a pure-noise candidate to nothing", func() {
		Expect(sanitizeName(" 00123456789 ")).To(BeEmpty())
	})
})

var _ = Describe("rightmost price token", func() {
	It("keeps the later token on an exact minX tie", func() {
		first := token{text: "1.25", minX: 200, maxX: 240}
		second := token{text: "2.75", minX: 200, maxX: 240}
		chosen, price, ok := rightmostPriceToken([]token{first, second})
		Expect(ok).To(BeTrue())
		Expect(price).To(Equal("2.75"))
		Expect(chosen.text).To(Equal("2.75"))
	})

	It("ignores rows without any price token", func() {
		_, _, ok := rightmostPriceToken([]token{{text: "BANANAS"}, {text: "4"}})
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("item filtering", func() {
	It("drops items whose recovered name is an administrative leak", func() {
		items := filterItems([]pendingItem{
			{name: "Milk", price: "2.50"},
			{name: "TOTAL", price: "5.94"},
			{name: "CHANGE", price: "4.06"},
		})
		Expect(items).To(HaveLen(1))
		Expect(items[0].Name).To(Equal("Milk"))
	})
})
