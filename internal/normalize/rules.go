package normalize

import "github.com/ppiankov/putusan/internal/textclean"

// removalRules is applied to the lowercased text in order. Block patterns
// come before token patterns so a phone-number rule cannot cut a
// disclaimer in half and leave its tail behind.
var removalRules = []textclean.Rule{
	textclean.NewRule("disclaimer",
		`(?is)disclaimer\s+kepaniteraan mahkamah agung republik indonesia.+?kami sajikan,? hal mana akan terus kami perbaiki dari waktu ke[ -]?waktu\.`, ""),
	textclean.NewRule("page-footer",
		`(?i)hal\s*\d+\s*dari\s*\d+\s*hal\s*putusan nomor.*`, ""),
	// the notice runs up to the contact block, which the next rule handles
	textclean.NewRule("inaccuracy-notice",
		`(?is)dalam hal anda menemukan inakurasi informasi.+?(email|telp|website|$)`, "${1}"),
	textclean.NewRule("email-telp",
		`(?i)(email\s*:\s*[^\s]+)?\s*(telp\s*:\s*(ext\.?\d{1,5}|ext\.?|)?)`, ""),
	textclean.NewRule("phone",
		`(?i)[-\s]?\d{3,4}[-\s]?\d{3,4}\s*(ext\.?|extension)?\.?\s*\d{1,4}`, ""),
	textclean.NewRule("extension",
		`(?i)\bext[.:]?\s*\d{1,5}\b`, ""),
	textclean.NewRule("halaman-footer",
		`halaman\s+\d+\s+dari\s+\d+\s+halaman.*`, ""),
}

// RemovalRules returns the removal table in application order
func RemovalRules() []textclean.Rule {
	out := make([]textclean.Rule, len(removalRules))
	copy(out, removalRules)
	return out
}
