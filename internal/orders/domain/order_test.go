package domain

import "testing"

func TestStatusFromName_MapsAllKnownNames(t *testing.T) {
	cases := map[string]Status{
		"New":        StatusNew,
		"Processing": StatusProcessing,
		"Completed":  StatusCompleted,
		"Cancelled":  StatusCancelled,
	}

	for name, want := range cases {
		got, ok := StatusFromName(name)
		if !ok {
			t.Fatalf("expected %q to map, but it did not", name)
		}
		if got != want {
			t.Fatalf("expected %q to map to %v, got %v", name, want, got)
		}
	}
}

func TestStatusFromName_IsCaseSensitive(t *testing.T) {
	for _, name := range []string{"processing", "PROCESSING", "completed", "new ", " New"} {
		if _, ok := StatusFromName(name); ok {
			t.Fatalf("expected %q not to map, but it did", name)
		}
	}
}

func TestStatusFromName_UnknownNameDoesNotMap(t *testing.T) {
	if _, ok := StatusFromName("Negotiation"); ok {
		t.Fatal("expected unknown status name not to map")
	}
	if _, ok := StatusFromName(""); ok {
		t.Fatal("expected empty status name not to map")
	}
}

func TestStatus_StringRoundTrip(t *testing.T) {
	for _, status := range []Status{StatusNew, StatusProcessing, StatusCompleted, StatusCancelled} {
		mapped, ok := StatusFromName(status.String())
		if !ok || mapped != status {
			t.Fatalf("round trip failed for %v: got %v (ok=%v)", status, mapped, ok)
		}
	}
}

func TestOrder_Linked(t *testing.T) {
	if (Order{LeadID: 0}).Linked() {
		t.Fatal("order with lead id 0 must be unlinked")
	}
	if !(Order{LeadID: 501}).Linked() {
		t.Fatal("order with non-zero lead id must be linked")
	}
}
