package testfixtures

import "testing"

func TestNewPersonIsUniqueAndOverridable(t *testing.T) {
	first := NewPerson()
	second := NewPerson(WithIdentity("R99"), WithDisplayName("Zed"), WithSecret("Z"))

	if first.Identity == second.Identity {
		t.Fatalf("expected distinct identities, got %q twice", first.Identity)
	}
	if second.Identity != "R99" || second.DisplayName != "Zed" || second.Secret != "Z" {
		t.Fatalf("options not applied: %#v", second)
	}
}

func TestScenarioFixtures(t *testing.T) {
	dir := ScenarioDirectory()
	for _, id := range []string{"R1", "R2", "R3", "R4"} {
		if _, ok := dir.Lookup(id); !ok {
			t.Fatalf("expected %s in scenario directory", id)
		}
	}

	c := ScenarioCatalog(t)
	if _, ok := c.Room(ScenarioRoomID); !ok {
		t.Fatalf("expected %s in scenario catalog", ScenarioRoomID)
	}
}
