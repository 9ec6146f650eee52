package textclean

// markerRules remove running page headers and case-number stamps that the
// decoder interleaves with body text at every page break.
var markerRules = []Rule{
	// "hal 2 dari 17 hal", "hal 2/17 yyk"
	NewRule("page-header", `(?i)\bhal\b\s*\d+\s*(?:dari|/)\s*\d+\s*(?:hal)?(?:\s*yyk)?\b[.:,;\-]*`, " "),
	// "Putusan Nomor 185/Pid.Sus/2023/PN Yyk"
	NewRule("case-stamp", `(?i)\bputusan\s+nomor\s+[A-Za-z0-9./-]+(?:\s*/?\s*pn\s*yyk)?\b[.:,;\-]*`, " "),
	NewRule("court-code", `(?i)\b(?:pn\s*)?yyk\b[.:,;\-]*`, " "),
	// stage-1 artifact names leaking into the body
	NewRule("artifact-name", `(?i)case_\d{1,4}`, " "),
}

// MarkerRules returns the page/case-number marker table
func MarkerRules() []Rule {
	out := make([]Rule, len(markerRules))
	copy(out, markerRules)
	return out
}

// StripMarkers removes page headers, case-number stamps and court codes,
// then collapses whitespace.
func StripMarkers(text string) string {
	return CollapseSpace(Apply(text, markerRules))
}
