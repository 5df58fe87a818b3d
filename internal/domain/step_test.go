package domain

import "testing"

func TestStepValidAndGuided(t *testing.T) {
	if Step(0).Valid() || Step(5).Valid() {
		t.Fatal("steps outside 1..4 must be invalid")
	}
	for _, step := range AllSteps {
		if !step.Valid() {
			t.Fatalf("step %d should be valid", int(step))
		}
	}
	if StepLinkAccount.Guided() {
		t.Fatal("link step is modal driven, not guided")
	}
	for _, step := range []Step{StepWishlist, StepFollow, StepLike} {
		if !step.Guided() {
			t.Fatalf("step %d should be guided", int(step))
		}
	}
}

func TestUserRecordStepComplete(t *testing.T) {
	record := &UserRecord{Quest1Complete: true, Quest3Complete: true}

	if !record.StepComplete(StepLinkAccount) || !record.StepComplete(StepFollow) {
		t.Fatalf("unexpected completion flags: %+v", record)
	}
	if record.StepComplete(StepWishlist) || record.StepComplete(StepLike) {
		t.Fatalf("unexpected completion flags: %+v", record)
	}
	if record.AllComplete() {
		t.Fatal("two of four steps is not complete")
	}

	record.Quest2Complete = true
	record.Quest4Complete = true
	if !record.AllComplete() {
		t.Fatal("expected all complete")
	}
}

func TestUserRecordLinked(t *testing.T) {
	record := &UserRecord{}
	if record.Linked() {
		t.Fatal("fresh record is not linked")
	}
	empty := ""
	record.SteamID = &empty
	if record.Linked() {
		t.Fatal("empty steam id does not count as linked")
	}
	id := "76561197960287930"
	record.SteamID = &id
	if !record.Linked() {
		t.Fatal("expected linked record")
	}
}
