package chat

import (
	"strings"
	"testing"

	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/domain/chatmodel"
	"github.com/rizkyfm/docchat/internal/rag/llm"
)

func TestSystemPrompt_WithContext(t *testing.T) {
	got := SystemPrompt("You are a pirate.", "-- EXCERPT FROM (a.pdf):\n\"treasure map\"")

	if !strings.HasPrefix(got, "You are a pirate.") {
		t.Errorf("persona must lead the prompt:\n%s", got)
	}
	if !strings.Contains(got, "treasure map") {
		t.Errorf("retrieved context missing from prompt:\n%s", got)
	}
}

func TestSystemPrompt_EmptyPersonaFallsBackToDefault(t *testing.T) {
	got := SystemPrompt("", "")

	if !strings.HasPrefix(got, config.DefaultPersona) {
		t.Errorf("missing persona should fall back to the default instruction:\n%s", got)
	}
	if !strings.Contains(got, "general knowledge") {
		t.Errorf("empty context must switch to the general-knowledge instruction:\n%s", got)
	}
}

func TestBuildMessages_Shape(t *testing.T) {
	history := []chatmodel.ChatTurn{
		{Question: "first q", Answer: "first a"},
		{Question: "second q", Answer: "second a"},
	}

	messages := BuildMessages("sys", history, "current q")

	wantRoles := []llm.Role{llm.RoleSystem, llm.RoleUser, llm.RoleAssistant, llm.RoleUser, llm.RoleAssistant, llm.RoleUser}
	if len(messages) != len(wantRoles) {
		t.Fatalf("got %d messages, want %d", len(messages), len(wantRoles))
	}
	for i, role := range wantRoles {
		if messages[i].Role != role {
			t.Errorf("message %d has role %q, want %q", i, messages[i].Role, role)
		}
	}
	if messages[0].Content != "sys" {
		t.Errorf("system instruction must come first")
	}
	if messages[len(messages)-1].Content != "current q" {
		t.Errorf("current question must come last, got %q", messages[len(messages)-1].Content)
	}
}

func TestBuildMessages_NoHistory(t *testing.T) {
	messages := BuildMessages("sys", nil, "hello")

	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[1].Role != llm.RoleUser || messages[1].Content != "hello" {
		t.Errorf("got %+v", messages[1])
	}
}

func TestAutoTitle(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     string
	}{
		{"short stays whole", "Hello there", "Hello there"},
		{"exactly at limit", strings.Repeat("x", 30), strings.Repeat("x", 30)},
		{"long is truncated", strings.Repeat("x", 31), strings.Repeat("x", 30) + "..."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := AutoTitle(tc.question); got != tc.want {
				t.Errorf("AutoTitle(%q) = %q, want %q", tc.question, got, tc.want)
			}
		})
	}
}
