package agent

import "testing"

func TestUsername(t *testing.T) {
	cases := []struct {
		first, last, want string
	}{
		{"Amina", "Bello", "amina_bello"},
		{"JOHN", "Okafor", "john_okafor"},
		{"ngozi", "EZE", "ngozi_eze"},
	}
	for _, tc := range cases {
		if got := Username(tc.first, tc.last); got != tc.want {
			t.Errorf("Username(%q, %q) = %q, want %q", tc.first, tc.last, got, tc.want)
		}
	}
}

func TestUpdateCommandEmpty(t *testing.T) {
	if !(UpdateCommand{}).empty() {
		t.Fatal("zero command should be empty")
	}
	name := "Amina"
	if (UpdateCommand{FirstName: &name}).empty() {
		t.Fatal("command with a field should not be empty")
	}
}
