package constants

// AdministrativeKeywords marks receipt lines that carry payment/tax/total
// metadata rather than purchased items. Matching is case-insensitive
// substring matching over the whole line.
var AdministrativeKeywords = []string{
	"subtotal",
	"tax",
	"change",
	"tender",
	"visa",
	"mastercard",
	"account",
	"approval",
	"trans id",
	"validation",
	"no signature",
	"terminal",
	"items sold",
}
