// Command console is an interactive terminal client for the triage
// protocol: browse the subject directory, open a streaming triage session
// for the selected subject, and watch the reconciled state as events land.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AbsSadhu/AuraTriage/internal/config"
	"github.com/AbsSadhu/AuraTriage/internal/directory"
	"github.com/AbsSadhu/AuraTriage/internal/reconcile"
	"github.com/AbsSadhu/AuraTriage/internal/session"
	"github.com/AbsSadhu/AuraTriage/internal/state"
	"github.com/AbsSadhu/AuraTriage/internal/triage"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	store := state.New()
	client := directory.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	manager := session.NewManager(store, reconcile.New(), cfg.SocketURL, cfg.SessionTimeout)
	manager.SetEventHook(func(ev triage.Event) { printEvent(os.Stdout, ev) })

	fmt.Printf("AuraTriage console (api %s)\n", cfg.APIBaseURL)
	fmt.Println(`type "help" for commands`)

	repl(store, client, manager)
}

func repl(store *state.Store, client *directory.Client, manager *session.Manager) {
	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "subjects", "ls":
			listSubjects(ctx, client, store.Snapshot().SearchFilter)

		case "search":
			store.SetSearchFilter(arg)
			listSubjects(ctx, client, arg)

		case "select":
			if arg == "" {
				fmt.Println("usage: select <patient-id>")
				continue
			}
			selectSubject(ctx, store, client, arg)

		case "abha":
			if arg == "" {
				fmt.Println("usage: abha <14-digit-abha-number>")
				continue
			}
			d, err := client.GetByABHA(ctx, arg)
			if err != nil {
				printErr(err)
				continue
			}
			selectSubject(ctx, store, client, d.PatientID)

		case "say":
			if arg == "" {
				fmt.Println("usage: say <symptom description>")
				continue
			}
			startSession(ctx, store, manager, arg)

		case "risk":
			printRisk(store.Snapshot().Risk)

		case "symptoms":
			printSymptoms(store.Snapshot().Symptoms)

		case "timeline":
			printTimeline(store.Snapshot().Timeline)

		case "log":
			printConversation(store.Snapshot().Conversation)

		case "cancel":
			manager.Cancel()
			fmt.Println("session cancelled")

		case "help":
			printHelp()

		case "quit", "exit":
			manager.Cancel()
			return

		default:
			fmt.Printf("unknown command %q, try \"help\"\n", cmd)
		}
	}
}

func listSubjects(ctx context.Context, client *directory.Client, filter string) {
	subjects, err := client.List(ctx)
	if err != nil {
		printErr(err)
		return
	}
	q := strings.ToLower(filter)
	for _, s := range subjects {
		if q != "" && !strings.Contains(strings.ToLower(s.Name), q) &&
			!strings.Contains(strings.ToLower(s.PatientID), q) {
			continue
		}
		level := ""
		if s.Risk != nil {
			level = string(s.Risk.TriageLevel)
		}
		fmt.Printf("  %-6s %-28s %3dy %-2s %-10s %s\n",
			s.PatientID, s.Name, s.Age, s.Gender, s.InsuranceTier, level)
	}
}

func selectSubject(ctx context.Context, store *state.Store, client *directory.Client, id string) {
	// Selection clears the prior subject's log, timeline, symptoms and risk
	// before the fetch, so a failed fetch never leaves stale data behind.
	store.SelectSubject(id)

	d, err := client.Get(ctx, id)
	if err != nil {
		printErr(err)
		return
	}
	store.SetDetail(d)
	store.SetRisk(d.Risk)

	fmt.Printf("selected %s: %s, %d%s, %s\n", d.PatientID, d.Name, d.Age, d.Gender, d.City)
	fmt.Printf("  records: %d encounters, %d medications, %d vitals, %d allergies, %d labs\n",
		len(d.Encounters), len(d.Medications), len(d.Vitals), len(d.Allergies), len(d.LabResults))
	printRisk(d.Risk)
}

func startSession(ctx context.Context, store *state.Store, manager *session.Manager, symptoms string) {
	snap := store.Snapshot()
	if snap.SelectedSubjectID == "" {
		fmt.Println("select a subject first")
		return
	}
	store.AppendConversation(state.ConversationEntry{
		ID:        uuid.New().String(),
		Role:      state.RoleUser,
		Text:      symptoms,
		Timestamp: time.Now(),
	})
	if _, err := manager.Start(ctx, snap.SelectedSubjectID, symptoms); err != nil {
		printErr(err)
	}
}

func printEvent(w *os.File, ev triage.Event) {
	switch ev.Type {
	case triage.KindNlpExtraction:
		fmt.Fprintf(w, "\n[nlp] %d symptoms identified\n", len(ev.Symptoms))
	case triage.KindRiskScore:
		if ev.Risk != nil {
			fmt.Fprintf(w, "[risk] %d/100 %s (%s)\n", ev.Risk.Score, ev.Risk.TriageLevel, ev.Risk.TriageLabel)
		}
	case triage.KindAgentThinking:
		fmt.Fprintf(w, "%s %s is working...\n", ev.Avatar, ev.Agent)
	case triage.KindAgentResult:
		conf := ""
		if ev.Confidence != nil {
			conf = fmt.Sprintf(" (%d%% confidence)", *ev.Confidence)
		}
		fmt.Fprintf(w, "%s %s%s:\n%s\n", ev.Avatar, ev.Agent, conf, indent(ev.Content))
	case triage.KindTriageComplete:
		fmt.Fprintf(w, "\n=== triage complete ===\n%s\n> ", ev.Summary)
	case triage.KindError:
		fmt.Fprintf(w, "\n[error] %s\n> ", ev.Message)
	}
}

func printRisk(r *triage.RiskScore) {
	if r == nil {
		fmt.Println("  risk: not computed")
		return
	}
	fmt.Printf("  risk: %d/100 %s (%s)\n", r.Score, r.TriageLevel, r.TriageLabel)
	for factor, pts := range r.Breakdown {
		if pts > 0 {
			fmt.Printf("    %-12s %d\n", factor, pts)
		}
	}
}

func printSymptoms(symptoms []triage.Symptom) {
	if len(symptoms) == 0 {
		fmt.Println("  no symptoms extracted")
		return
	}
	for _, s := range symptoms {
		part := ""
		if s.BodyPart != nil {
			part = " [" + *s.BodyPart + "]"
		}
		fmt.Printf("  %-24s ICD-10 %-8s severity %s%s\n", s.Symptom, s.ICD10, s.Severity, part)
	}
}

func printTimeline(timeline []state.TimelineEntry) {
	if len(timeline) == 0 {
		fmt.Println("  timeline empty")
		return
	}
	for _, e := range timeline {
		switch e.Kind {
		case state.TimelinePlaceholder:
			fmt.Printf("  %s %s (working)\n", e.Avatar, e.Agent)
		case state.TimelineResult:
			conf := ""
			if e.Confidence != nil {
				conf = fmt.Sprintf(" %d%%", *e.Confidence)
			}
			fmt.Printf("  %s %s%s: %s\n", e.Avatar, e.Agent, conf, firstLine(e.Content))
		case state.TimelineMarker:
			fmt.Println("  --- session complete ---")
		}
	}
}

func printConversation(entries []state.ConversationEntry) {
	if len(entries) == 0 {
		fmt.Println("  log empty")
		return
	}
	for _, e := range entries {
		fmt.Printf("  %s [%s] %s\n", e.Timestamp.Format("15:04:05"), e.Role, firstLine(e.Text))
	}
}

func printHelp() {
	fmt.Print(`  subjects            list the directory
  search <q>          filter the listing by name or id
  select <id>         select a subject and fetch the full record
  abha <number>       select a subject by ABHA health id
  say <symptoms>      start a triage session with free-text symptoms
  risk                show the current risk score
  symptoms            show the extracted symptom list
  timeline            show the agent timeline
  log                 show the conversation log
  cancel              abort the active session
  quit                exit
`)
}

func printErr(err error) {
	var reqErr *directory.RequestError
	var transErr *directory.TransportError
	switch {
	case errors.As(err, &reqErr):
		fmt.Printf("server error: %s\n", reqErr.Message)
	case errors.As(err, &transErr):
		fmt.Printf("cannot reach directory service: %v\n", transErr.Err)
	default:
		fmt.Printf("error: %v\n", err)
	}
}

func indent(s string) string {
	return "    " + strings.ReplaceAll(s, "\n", "\n    ")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	// Logs go to stderr so the REPL output stays readable.
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
