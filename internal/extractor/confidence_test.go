package extractor

import "testing"

func TestConfidenceFor_FactsAreCertain(t *testing.T) {
	for _, res := range []Resolution{ResolutionLocal, ResolutionLiteral} {
		if c := ConfidenceFor(res); c != 1.0 {
			t.Fatalf("expected confidence 1.0 for %s, got %f", res, c)
		}
	}
}

func TestConfidenceFor_GuessIsReduced(t *testing.T) {
	c := ConfidenceFor(ResolutionNameGuess)
	if c <= 0 || c >= 1 {
		t.Fatalf("expected guess confidence in (0,1), got %f", c)
	}
	if unknown := ConfidenceFor(Resolution("other")); unknown != c {
		t.Fatalf("expected unknown resolution to be treated as a guess (%f != %f)", unknown, c)
	}
}

func TestGuessEdge_CarriesTargetName(t *testing.T) {
	e := guessEdge("class.A.java:A", KindClass, "Base", EdgeExtends, 3)
	if !e.IsGuess() {
		t.Fatalf("expected guess edge")
	}
	if e.ToID != "class.Base" || e.TargetName != "Base" {
		t.Fatalf("unexpected target %q (name %q)", e.ToID, e.TargetName)
	}
	if e.Key() != "class.A.java:A -extends-> class.Base@3" {
		t.Fatalf("unexpected key %q", e.Key())
	}
}

func TestLocalEdge_IsNotGuess(t *testing.T) {
	e := localEdge("file.a.py", "function.a.py:f", EdgeDefines, 1)
	if e.IsGuess() || e.Resolution != ResolutionLocal {
		t.Fatalf("expected local edge, got %+v", e)
	}
}
