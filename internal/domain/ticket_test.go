package domain

import "testing"

func TestValidateNew(t *testing.T) {
	valid := Ticket{
		Title:       "Printer not working",
		Description: "3rd floor printer jams on every job",
		Priority:    TicketPriorityMedium,
		Category:    TicketCategoryHardware,
	}
	if problems := valid.ValidateNew(); problems != nil {
		t.Fatalf("expected no problems, got %v", problems)
	}

	cases := []struct {
		name   string
		mutate func(*Ticket)
		field  string
	}{
		{"short title", func(tk *Ticket) { tk.Title = "Hi" }, "title"},
		{"whitespace-padded title", func(tk *Ticket) { tk.Title = "  ab  " }, "title"},
		{"short description", func(tk *Ticket) { tk.Description = "too short" }, "description"},
		{"unknown priority", func(tk *Ticket) { tk.Priority = "urgent" }, "priority"},
		{"unknown category", func(tk *Ticket) { tk.Category = "misc" }, "category"},
		{"empty priority", func(tk *Ticket) { tk.Priority = "" }, "priority"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ticket := valid
			tc.mutate(&ticket)
			problems := ticket.ValidateNew()
			if problems == nil {
				t.Fatal("expected validation problems")
			}
			if _, ok := problems[tc.field]; !ok {
				t.Fatalf("expected problem on %q, got %v", tc.field, problems)
			}
		})
	}
}

func TestEnumSetsAreClosed(t *testing.T) {
	if ValidStatus("reopened") || ValidStatus("") {
		t.Error("status set admitted an unknown value")
	}
	if ValidPriority("urgent") {
		t.Error("priority set admitted an unknown value")
	}
	if ValidCategory("facilities") {
		t.Error("category set admitted an unknown value")
	}
	if ValidRole("manager") {
		t.Error("role set admitted an unknown value")
	}
}

func TestCanBeAssignee(t *testing.T) {
	if !RoleAdmin.CanBeAssignee() || !RoleSupport.CanBeAssignee() {
		t.Error("admins and support must be assignable")
	}
	if RoleRequester.CanBeAssignee() {
		t.Error("requesters must never hold tickets")
	}
}
