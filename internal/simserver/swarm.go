package simserver

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/AbsSadhu/AuraTriage/internal/subject"
	"github.com/AbsSadhu/AuraTriage/internal/triage"
)

// The four deliberating agents, in speaking order, plus the summarizer that
// closes the session.
var swarmAgents = []struct {
	name   string
	avatar string
}{
	{"Chief Diagnostician", "🩺"},
	{"Jan Aushadhi Pharmacologist", "💊"},
	{"Financial Auditor & Lab Router", "₹"},
	{"ABHA Compliance Officer", "🛡️"},
}

const (
	summarizerName   = "Chief Medical Officer (Summarizer)"
	summarizerAvatar = "📋"
)

var abhaPattern = regexp.MustCompile(`^\d{2}-\d{4}-\d{4}-\d{4}$`)

// Swarm streams a scripted agent deliberation for one triage session. The
// content is deterministic over the patient record and extracted symptoms,
// which is what makes end-to-end tests repeatable.
type Swarm struct {
	// Delay is the pause between agents. Zero in tests.
	Delay time.Duration
}

// Run emits the deliberation through emit: a thinking/result pair per
// agent, a summarizer thinking, then triage_complete. Emit errors and
// context cancellation abort the stream.
func (sw *Swarm) Run(ctx context.Context, d *subject.Detail, symptoms []triage.Symptom, risk *triage.RiskScore, emit func(triage.Event) error) error {
	outputs := []func(*subject.Detail, []triage.Symptom, *triage.RiskScore) (string, int){
		diagnosticianOutput,
		pharmacologistOutput,
		auditorOutput,
		complianceOutput,
	}

	for i, agent := range swarmAgents {
		if err := emit(triage.Event{
			Type:   triage.KindAgentThinking,
			Agent:  agent.name,
			Avatar: agent.avatar,
			Index:  i,
		}); err != nil {
			return err
		}
		if err := sw.pause(ctx); err != nil {
			return err
		}

		content, confidence := outputs[i](d, symptoms, risk)
		c := confidence
		if err := emit(triage.Event{
			Type:       triage.KindAgentResult,
			Agent:      agent.name,
			Avatar:     agent.avatar,
			Index:      i,
			Content:    content,
			Confidence: &c,
		}); err != nil {
			return err
		}
	}

	if err := emit(triage.Event{
		Type:   triage.KindAgentThinking,
		Agent:  summarizerName,
		Avatar: summarizerAvatar,
		Index:  len(swarmAgents),
	}); err != nil {
		return err
	}
	if err := sw.pause(ctx); err != nil {
		return err
	}

	return emit(triage.Event{
		Type:    triage.KindTriageComplete,
		Summary: summaryOutput(d, symptoms, risk),
	})
}

func (sw *Swarm) pause(ctx context.Context) error {
	if sw.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(sw.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func diagnosticianOutput(d *subject.Detail, symptoms []triage.Symptom, risk *triage.RiskScore) (string, int) {
	var b strings.Builder
	gender := d.Gender
	if gender != "" {
		gender = strings.ToUpper(gender[:1])
	}
	fmt.Fprintf(&b, "## Clinical Assessment for %s (%d%s)\n\n", d.Name, d.Age, gender)

	if len(symptoms) == 0 {
		b.WriteString("No structured symptoms extracted; assessment based on chart review only.\n")
	} else {
		b.WriteString("**Presenting symptoms:**\n")
		for _, s := range symptoms {
			fmt.Fprintf(&b, "- %s (ICD-10 %s, severity %s)\n", s.Symptom, s.ICD10, s.Severity)
		}
	}

	if len(d.Vitals) > 0 {
		v := d.Vitals[0]
		fmt.Fprintf(&b, "\n**Latest vitals:** HR %d | BP %d/%d | Temp %.1f°C | SpO2 %d%% | RR %d\n",
			v.HeartRate, v.BPSystolic, v.BPDiastolic, v.Temperature, v.OxygenSaturation, v.RespiratoryRate)
	}
	for _, lab := range d.LabResults {
		if strings.EqualFold(lab.Flag, "HIGH") || strings.EqualFold(lab.Flag, "LOW") {
			fmt.Fprintf(&b, "- Flagged lab: %s %s %s (%s, ref %s)\n",
				lab.TestName, lab.ResultValue, lab.Unit, lab.Flag, lab.ReferenceRange)
		}
	}
	fmt.Fprintf(&b, "\n**Working triage band:** %s (%s). Recommend confirmatory tests before disposition.",
		risk.TriageLevel, risk.TriageLabel)

	confidence := 70
	if len(symptoms) > 0 {
		confidence = 82
	}
	return b.String(), confidence
}

func pharmacologistOutput(d *subject.Detail, _ []triage.Symptom, _ *triage.RiskScore) (string, int) {
	var b strings.Builder
	b.WriteString("## Pharmacological Review + Jan Aushadhi Comparison\n\n")

	active := 0
	for _, m := range d.Medications {
		status := "SAFE"
		if m.Status == "Active" {
			active++
		} else {
			status = "WARNING (" + m.Status + ")"
		}
		fmt.Fprintf(&b, "- %s %s %s: %s\n", m.DrugName, m.Dosage, DecodeAbbreviations(m.Frequency), status)
	}
	if len(d.Medications) == 0 {
		b.WriteString("No medications on chart.\n")
	}
	if active >= 3 {
		fmt.Fprintf(&b, "\nPolypharmacy flag: %d active medications, review for interactions.\n", active)
	}
	b.WriteString("\nFor every branded drug above, a PMBJP generic exists at roughly 15-20% of the brand price. Recommend Jan Aushadhi switch where clinically equivalent.")
	return b.String(), 78
}

func auditorOutput(d *subject.Detail, _ []triage.Symptom, risk *triage.RiskScore) (string, int) {
	var b strings.Builder
	b.WriteString("## Financial Analysis + Diagnostic Lab Routing\n\n")
	fmt.Fprintf(&b, "**Insurance tier:** %s", d.InsuranceTier)
	switch d.InsuranceTier {
	case "PMJAY":
		b.WriteString(" (covered up to ₹5L per family per year)")
	case "CGHS", "ESIC":
		b.WriteString(" (cashless at empanelled facilities)")
	case "Self-Pay":
		b.WriteString(" (no coverage, route to lowest-cost labs)")
	}
	b.WriteString("\n")

	for _, lab := range d.LabResults {
		if strings.EqualFold(lab.Flag, "HIGH") || strings.EqualFold(lab.Flag, "LOW") {
			fmt.Fprintf(&b, "- Repeat %s: nearest NABL lab in %s, turnaround under 8h\n", lab.TestName, d.City)
		}
	}
	if risk.TriageLevel == triage.LevelRed || risk.TriageLevel == triage.LevelBlack {
		b.WriteString("\nEscalation pathway: District hospital or tertiary referral. Pre-authorize under the active scheme before admission.")
	} else {
		b.WriteString("\nOPD pathway adequate. Estimated episode cost within outpatient limits.")
	}
	return b.String(), 75
}

func complianceOutput(d *subject.Detail, _ []triage.Symptom, _ *triage.RiskScore) (string, int) {
	var b strings.Builder
	b.WriteString("## ABDM Compliance Check\n\n")
	if abhaPattern.MatchString(d.ABHANumber) {
		fmt.Fprintf(&b, "- ABHA number %s: valid 14-digit Health ID format\n", d.ABHANumber)
	} else {
		fmt.Fprintf(&b, "- ABHA number %q: INVALID format, flag for registration desk\n", d.ABHANumber)
	}
	b.WriteString("- Digital consent recorded for this triage session\n")
	b.WriteString("- Data sharing purpose: clinical triage, documented\n")
	b.WriteString("- Session access is time-bound to this encounter\n")
	return b.String(), 90
}

func summaryOutput(d *subject.Detail, symptoms []triage.Symptom, risk *triage.RiskScore) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## 🏥 FINAL DIAGNOSIS\nPatient %s (%s): triage %s, %s, composite risk %d/100.\n",
		d.Name, d.PatientID, risk.TriageLevel, risk.TriageLabel, risk.Score)
	if len(symptoms) > 0 {
		codes := make([]string, 0, len(symptoms))
		for _, s := range symptoms {
			codes = append(codes, s.ICD10)
		}
		fmt.Fprintf(&b, "Leading considerations per extracted symptoms: %s.\n", strings.Join(codes, ", "))
	}
	b.WriteString("\n## 💊 MEDICATION PLAN\nContinue current chart after pharmacology review; switch branded drugs to Jan Aushadhi generics where flagged.\n")
	fmt.Fprintf(&b, "\n## ₹ COST BREAKDOWN\nCoverage: %s. Route labs to the cheapest NABL-accredited center in %s.\n", d.InsuranceTier, d.City)
	b.WriteString("\n## ⚠️ RED FLAGS\n")
	if risk.TriageLevel == triage.LevelRed || risk.TriageLevel == triage.LevelBlack {
		b.WriteString("Escalate immediately on any deterioration; continuous monitoring advised for 24-48 hours.\n")
	} else {
		b.WriteString("Review in OPD if symptoms worsen over the next 48 hours.\n")
	}
	b.WriteString("\n## ➡️ NEXT STEPS\nConfirmatory labs, scheme pre-authorization where applicable, follow-up per triage band.")
	return b.String()
}
