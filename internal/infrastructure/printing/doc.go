// Package printing renders inspection reports: an html/template document is
// filled from the inspection checklist and converted to PDF by headless
// Chrome through chromedp.
package printing
