package tui

import (
	"strings"
	"testing"

	"github.com/medicare-portal/medicare/pkg/domain"
)

func TestRoleBadge(t *testing.T) {
	tests := []struct {
		role domain.Role
		want string
	}{
		{domain.RolePatient, "[patient portal]"},
		{domain.RoleStaff, "[staff portal]"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := RoleBadge(tc.role); !strings.Contains(got, tc.want) {
				t.Errorf("RoleBadge(%v) = %q, want to contain %q", tc.role, got, tc.want)
			}
		})
	}
	if got := RoleBadge(domain.RoleNone); got != "" {
		t.Errorf("RoleBadge(RoleNone) = %q, want empty", got)
	}
}

func TestRenderShimmerLogoHasEveryLetter(t *testing.T) {
	for _, frame := range []int{0, 17, 500} {
		logo := renderShimmerLogo(frame)
		for _, ch := range "MEDICARE" {
			if !strings.ContainsRune(logo, ch) {
				t.Errorf("frame %d: logo missing %q", frame, ch)
			}
		}
	}
}

func TestClampByte(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{-5, 0},
		{0, 0},
		{127.9, 127},
		{300, 255},
	}
	for _, tc := range tests {
		if got := clampByte(tc.in); got != tc.want {
			t.Errorf("clampByte(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestHelpViewLinks(t *testing.T) {
	view := helpView(helpItems("https://support.example.org/help"), 0)
	if !strings.Contains(view, "Contact Support") {
		t.Errorf("expected support link in help, got:\n%s", view)
	}
	if !strings.Contains(view, "support.example.org/help") {
		t.Errorf("expected URL without scheme, got:\n%s", view)
	}

	bare := helpView(helpItems(""), 0)
	if strings.Contains(bare, "Links") {
		t.Error("no links section without a support URL")
	}
	if !strings.Contains(bare, "Log out") {
		t.Error("key reference should always be shown")
	}
}

func TestStatusStyles(t *testing.T) {
	for _, s := range []string{domain.RecordRecovered, domain.RecordOngoing, domain.RecordChronic} {
		if got := recordStatusStyle(s).Render(s); !strings.Contains(got, s) {
			t.Errorf("recordStatusStyle(%q) dropped text: %q", s, got)
		}
	}
	if got := conditionStyle("Critical").Render("Critical"); !strings.Contains(got, "Critical") {
		t.Errorf("conditionStyle dropped text: %q", got)
	}
}
