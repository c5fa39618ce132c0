/*
NAME
  repeat_test.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package lpc

import "testing"

// TestFoldUnfold covers invariant 2 from spec section 8: unfold(fold(seq))
// == seq.
func TestFoldUnfold(t *testing.T) {
	v1 := sampleVoiced()
	v1Repeat := v1
	v1Repeat.Energy = 9
	v1Repeat.Pitch = 0x20 // Same k, different energy/pitch: should fold.

	v2 := sampleVoiced()
	v2.K[0] = 31 // Different k: should not fold.

	u1 := sampleUnvoiced()
	u1Repeat := u1
	u1Repeat.Energy = 2 // Same k: should fold.

	seq := []Frame{v1, v1Repeat, NewSilence(), v2, u1, u1Repeat}

	folded := Fold(seq)
	if folded[1].Kind != Repeat {
		t.Fatalf("expected frame 1 to fold to Repeat, got %v", folded[1].Kind)
	}
	if folded[3].Kind != Voiced {
		t.Fatalf("expected frame 3 (different k) to stay Voiced, got %v", folded[3].Kind)
	}
	if folded[5].Kind != Repeat {
		t.Fatalf("expected frame 5 to fold to Repeat, got %v", folded[5].Kind)
	}

	unfolded := Unfold(folded)
	if len(unfolded) != len(seq) {
		t.Fatalf("Unfold returned %d frames, want %d", len(unfolded), len(seq))
	}
	for i := range seq {
		if !unfolded[i].Equal(seq[i]) {
			t.Errorf("frame %d: got %+v, want %+v", i, unfolded[i], seq[i])
		}
	}
}

func TestRepeatNeverFoldsAcrossKindChange(t *testing.T) {
	seq := []Frame{sampleVoiced(), sampleUnvoiced()}
	folded := Fold(seq)
	if folded[1].Kind != Unvoiced {
		t.Fatalf("Voiced->Unvoiced must not fold, got %v", folded[1].Kind)
	}
}
