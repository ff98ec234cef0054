// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package dispatch

import (
	"fmt"
	"strings"
	"time"

	"github.com/joergschultzelutter/mowas-pwb/internal/models"
)

const projectURL = "https://github.com/joergschultzelutter/mowas-pwb"

// GeneratedAt formats the report creation timestamp used in subjects
// and message footers.
func GeneratedAt(t time.Time) string {
	return t.UTC().Format("02-Jan-2006 15:04:05") + " UTC"
}

// Subject builds the mail subject line for a record.
func Subject(rec *models.DeliveryRecord, generatedAt string) string {
	return fmt.Sprintf("%s - %s: MOWAS Personal Warning Beacon - Report %s",
		strings.ToUpper(string(rec.MsgType)), rec.Severity, generatedAt)
}

// bilingual renders a translated field next to its German original.
// Without a translation the original is returned unchanged.
func bilingual(translated, original string) string {
	if translated == "" || translated == original {
		return original
	}
	return translated + " (<i>" + original + "</i>)"
}

// PlainTextBody renders the plain-text alternative of the report email.
// The plain-text part always carries the untranslated German content.
func PlainTextBody(rec *models.DeliveryRecord, generatedAt string) string {
	var b strings.Builder

	b.WriteString("AUTOMATED EMAIL - PLEASE DO NOT RESPOND\n\n")
	b.WriteString("MOWAS Personal Warning Beacon - Report. Matching coordinates:\n\n")

	for _, p := range rec.Points {
		fmt.Fprintf(&b, "Lat/Lon: %v/%v. UTM: %s. Grid: %s. Address: %s",
			p.Latitude, p.Longitude, p.UTM, p.Maidenhead, p.Address)
		if p.APRS {
			b.WriteString(" (User's APRS Position)")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Message Headline:       %s\n", rec.Headline)
	fmt.Fprintf(&b, "Message Type:           %s\n", rec.MsgType)
	fmt.Fprintf(&b, "Urgency:                %s\n", rec.Urgency)
	fmt.Fprintf(&b, "Severity:               %s\n", rec.Severity)
	fmt.Fprintf(&b, "Message Timestamp:      %s\n", rec.Sent)
	fmt.Fprintf(&b, "Description:            %s\n", rec.Description)
	fmt.Fprintf(&b, "Instructions:           %s\n", rec.Instruction)
	fmt.Fprintf(&b, "Contact:                %s\n", rec.Contact)

	b.WriteString("\nThis position report was processed by mowas-pwb. Generated at ")
	b.WriteString(generatedAt)
	b.WriteString("\nMore info on mowas-pwb can be found here: ")
	b.WriteString(projectURL)
	b.WriteString("\n")

	return b.String()
}

// HTMLBody renders the HTML alternative of the report email. A non-empty
// imageCID selects the with-image template and references the embedded
// map via that content id.
func HTMLBody(rec *models.DeliveryRecord, generatedAt, imageCID string) string {
	var b strings.Builder

	b.WriteString("<h2>Automated email - please do not respond</h2>\n")
	b.WriteString("<p>MOWAS Personal Warning Beacon - Report. Matching coordinates:</p>\n")
	b.WriteString("<h3>Affected coordinates</h3>\n")
	b.WriteString("<table border=\"1\">\n<thead>\n<tr style=\"background-color: #bbbbbb;\">\n")
	b.WriteString("<th>Latitude</th>\n<th>Longitude</th>\n<th>UTM</th>\n<th>Grid</th>\n<th>Address</th>\n<th>APRS</th>\n")
	b.WriteString("</tr>\n</thead>\n<tbody>\n")

	for _, p := range rec.Points {
		aprs := `<span style="background-color:#FF0000">&nbsp;n&nbsp;</span>`
		if p.APRS {
			aprs = `<span style="background-color:#00FF00">&nbsp;y&nbsp;</span>`
		}
		b.WriteString("<tr>\n")
		fmt.Fprintf(&b, "<td><center>%v</center></td>\n", p.Latitude)
		fmt.Fprintf(&b, "<td><center>%v</center></td>\n", p.Longitude)
		fmt.Fprintf(&b, "<td><center>%s</center></td>\n", p.UTM)
		fmt.Fprintf(&b, "<td><center>%s</center></td>\n", p.Maidenhead)
		fmt.Fprintf(&b, "<td>%s</td>\n", p.Address)
		fmt.Fprintf(&b, "<td><center>%s</center></td>\n", aprs)
		b.WriteString("</tr>\n")
	}

	b.WriteString("</tbody>\n</table>\n")
	b.WriteString("<h3>Message Details</h3>\n")
	fmt.Fprintf(&b, "<li><strong>Headline</strong>: %s</li>\n", bilingual(rec.LangHeadline, rec.Headline))
	fmt.Fprintf(&b, "<li><strong>Message Type</strong>: %s</li>\n", rec.MsgType)
	fmt.Fprintf(&b, "<li><strong>Urgency</strong>: %s</li>\n", rec.Urgency)
	fmt.Fprintf(&b, "<li><strong>Severity</strong>: %s</li>\n", rec.Severity)
	fmt.Fprintf(&b, "<li><strong>Message Timestamp</strong>: %s</li>\n", rec.Sent)
	fmt.Fprintf(&b, "<li><strong>Description</strong>: %s</li>\n", bilingual(rec.LangDescription, rec.Description))
	fmt.Fprintf(&b, "<li><strong>Instructions</strong>: %s</li>\n", bilingual(rec.LangInstruction, rec.Instruction))
	fmt.Fprintf(&b, "<li><strong>Contact</strong>: %s</li>\n", bilingual(rec.LangContact, rec.Contact))

	if imageCID != "" {
		b.WriteString("<hr />\n")
		fmt.Fprintf(&b, "<p><center><img src=\"cid:%s\" /></center></p>\n", imageCID)
	}

	b.WriteString("<hr />\n")
	fmt.Fprintf(&b, "<p>This report was processed by <a href=%q target=\"_blank\" rel=\"noopener\">mowas-pwb</a>. Generated at <strong>%s</strong></p>\n",
		projectURL, generatedAt)

	return b.String()
}

// MessengerBody renders the full-content notification for the messenger
// sink. The markup follows what chat-style services render as rich text.
func MessengerBody(rec *models.DeliveryRecord, generatedAt string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>Message headline:</b> %s\n\n", bilingual(rec.LangHeadline, rec.Headline))

	b.WriteString("<u><i>Message details</i></u>\n")
	fmt.Fprintf(&b, "<b>Description:</b> %s\n", bilingual(rec.LangDescription, rec.Description))
	fmt.Fprintf(&b, "<b>Instructions:</b> %s\n", bilingual(rec.LangInstruction, rec.Instruction))
	fmt.Fprintf(&b, "<b>Contact:</b> %s\n", bilingual(rec.LangContact, rec.Contact))
	fmt.Fprintf(&b, "<b>Message Type:</b> %s\n", rec.MsgType)
	fmt.Fprintf(&b, "<b>Urgency:</b> %s\n", rec.Urgency)
	fmt.Fprintf(&b, "<b>Severity:</b> %s\n", rec.Severity)
	fmt.Fprintf(&b, "<b>Timestamp:</b> %s\n\n", rec.Sent)

	b.WriteString("<u><i>Address details</i></u>\n")
	for _, p := range rec.Points {
		fmt.Fprintf(&b, "<b>Lat / Lon:</b> %v / %v", p.Latitude, p.Longitude)
		if p.APRS {
			b.WriteString(" (<i>This is the user's latest APRS position; see green pin on map</i>)")
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "<b>UTM:</b> %s\n", p.UTM)
		fmt.Fprintf(&b, "<b>Grid:</b> %s\n", p.Maidenhead)
		fmt.Fprintf(&b, "<b>Address:</b> %s\n\n", p.Address)
	}

	fmt.Fprintf(&b, "<u><i>mowas-pwb Notification</i> (generated at %s)</u>\n", generatedAt)

	return b.String()
}

// notifyTitle derives the notification title from the record priority.
// Services without title support drop it silently.
func notifyTitle(rec *models.DeliveryRecord) string {
	if rec.HighPrio {
		return "mowas-pwb EMERGENCY notification"
	}
	return "mowas-pwb notification"
}
