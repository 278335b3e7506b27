package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"workboard/internal/model"
	"workboard/internal/service"
)

// GeminiClassifier asks a Gemini model for the intent JSON.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

// NewGeminiClassifier creates a classifier backed by the Gemini API.
func NewGeminiClassifier(ctx context.Context, apiKey, model string) (*GeminiClassifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClassifier{client: client, model: model}, nil
}

func (g *GeminiClassifier) Classify(ctx context.Context, text string, c *Context) (Intent, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(c), genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("classify message: %w", err)
	}
	data, ok := ExtractJSON(resp.Text())
	if !ok {
		return Unknown{Raw: text, Error: "no JSON in model reply"}, nil
	}
	return Decode(data, text), nil
}

// SystemPrompt renders the context bundle and the intent vocabulary.
func SystemPrompt(c *Context) string {
	if c == nil {
		c = &Context{}
	}
	var b strings.Builder
	persona := c.Settings.Persona
	if persona == "" {
		persona = "a calm, direct coach"
	}
	fmt.Fprintf(&b, "You are a personal productivity assistant. Persona: %s. Be warm, direct and concise.\n", persona)
	fmt.Fprintf(&b, "Parse the user's message and return ONE JSON object with an \"intent\" field.\n\n")
	fmt.Fprintf(&b, "CURRENT DATE: %s\nCURRENT DAY: %s\nWEEK: %s\n\n", c.Today, c.DayName, c.WeekID)

	b.WriteString("PROJECTS:\n")
	for _, p := range c.Projects {
		fmt.Fprintf(&b, "- %s (area: %s, id: %s) [keywords: %s]\n", p.Name, p.Area, p.ID, strings.Join(p.MatchKeywords, ", "))
	}

	b.WriteString("\nTODAY'S TASKS:\n")
	if len(c.TodayTasks) == 0 {
		b.WriteString("(none)\n")
	}
	for i, t := range c.TodayTasks {
		fmt.Fprintf(&b, "%d. [%s] %s (%s, %s)\n", i+1, t.Status, t.Name, service.FormatHours(t.EstimatedHours), t.Priority)
	}

	b.WriteString("\nWEEK SCHEDULE:\n")
	for _, day := range service.DayNames {
		var load float64
		var done, total int
		for _, t := range c.WeekTasks {
			if t.Day != day || t.Status == model.StatusDropped {
				continue
			}
			load += t.EstimatedHours
			total++
			if t.Status == model.StatusDone {
				done++
			}
		}
		fmt.Fprintf(&b, "  %s: %s planned, %d/%d done\n", day, service.FormatHours(load), done, total)
	}

	b.WriteString("\nPENDING TASK:\n")
	if c.Pending == nil {
		b.WriteString("null\n")
	} else {
		draft, _ := json.Marshal(c.Pending.Draft)
		fmt.Fprintf(&b, "%s\nMissing fields: %v\n", draft, c.Pending.Missing)
		for i, cand := range c.Pending.Candidates {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, cand.Name)
		}
	}

	b.WriteString("\nRECENT CHECK-INS:\n")
	recent := c.RecentCheckIns
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	for _, ci := range recent {
		msg := ci.MessageSent
		if r := []rune(msg); len(r) > 80 {
			msg = string(r[:80]) + "..."
		}
		fmt.Fprintf(&b, "- [%s] %s\n", ci.Type, msg)
		if ci.Response != nil {
			fmt.Fprintf(&b, "  User replied: %s\n", *ci.Response)
		}
	}

	b.WriteString("\nACTIVE NOTES:\n")
	for _, n := range c.Notes {
		until := n.AppliesUntil
		if until == "" {
			until = "indefinite"
		}
		fmt.Fprintf(&b, "- %s (until: %s)\n", n.Note, until)
	}

	b.WriteString(intentVocabulary)
	return b.String()
}

const intentVocabulary = `
POSSIBLE INTENTS:
- add_task: {"intent":"add_task","tasks":[{"name":"...","project_id":"..." or null,"project_candidates":["id"],"subtype":"...","priority":"urgent|high|normal|low","estimated_hours":N or null,"day":"monday..sunday" or null,"time":"HH:MM" or null,"due_date":"YYYY-MM-DD" or null,"needs_clarification":["project","hours","day"],"is_time_block":false}],"message_to_user":"..."}
- complete_pending: {"intent":"complete_pending","field":"project|hours|day|confirm","value":"..."}
- mark_done | mark_doing | mark_skipped: {"intent":"mark_done","task_match":"..."}
- move_task: {"intent":"move_task","task_match":"...","to_day":"wednesday"}
- push_tomorrow: {"intent":"push_tomorrow","task_match":"..."}
- query_next | query_today | query_week: {"intent":"query_next"}
- query_day: {"intent":"query_day","day":"monday..sunday"}
- checkin_response: {"intent":"checkin_response","status":"done|working|skipped|pushed"}
- acknowledge: {"intent":"acknowledge"}
- log_food | log_exercise: {"intent":"log_food","entry":"...","duration":"..."}
- log_sleep: {"intent":"log_sleep","hours":N,"notes":"..."}
- manage_subtypes: {"intent":"manage_subtypes","action":"add|remove|list","area":"teaching|research|admin|personal","subtype":"..."}
- set_reminder: {"intent":"set_reminder","message":"...","date":"YYYY-MM-DD","time":"HH:MM","recurring":null|"daily"|"weekly:<day>"|"monthly:<n>"}
- delete_reminder: {"intent":"delete_reminder","reminder_number":N}
- list_reminders: {"intent":"list_reminders"}
- modify_behavior: {"intent":"modify_behavior","setting":"...","value":"...","duration":"today|tomorrow|this_week|permanent"}
- reset_behavior: {"intent":"reset_behavior"}
- add_note: {"intent":"add_note","note":"...","applies_until":"...","tagged_project":"id" or null,"tagged_task":"..." or null,"new_project_name":"..." or null,"new_project_area":"..." or null}
- pause_agent: {"intent":"pause_agent","until":"..."}
- chat: {"intent":"chat","message":"...","reply":"...","save_as_note":true|false}
- unknown: {"intent":"unknown","raw":"..."}

RULES:
- Not everything is a task. Thoughts and feelings are chat.
- Use add_task only when the user clearly asks to create or schedule something.
- Convert "tomorrow" to the actual day name.
- If a PENDING TASK exists and the reply answers its question (a number, a day name, "yes", an hour amount), use complete_pending.
- A bare emoji reply is acknowledge or checkin_response.
- Return ONLY a JSON object.
`
