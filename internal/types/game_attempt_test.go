package types

import "testing"

func TestParseGameType(t *testing.T) {
  cases := []struct {
    in      string
    want    GameType
    wantErr bool
  }{
    {"SENTENCE_SEQUENCE", GameTypeSentenceSequence, false},
    {"WORD_SEQUENCE", GameTypeWordSequence, false},
    {"sentence_sequence", "", true},
    {"PUZZLE", "", true},
    {"", "", true},
  }
  for _, tc := range cases {
    got, err := ParseGameType(tc.in)
    if tc.wantErr {
      if err == nil {
        t.Errorf("ParseGameType(%q): expected error", tc.in)
      }
      continue
    }
    if err != nil {
      t.Errorf("ParseGameType(%q): %v", tc.in, err)
      continue
    }
    if got != tc.want {
      t.Errorf("ParseGameType(%q) = %s, want %s", tc.in, got, tc.want)
    }
  }
}

func TestGameTypeLadder(t *testing.T) {
  if got := GameTypeSentenceSequence.Harder(); got != GameTypeWordSequence {
    t.Fatalf("Harder() = %s", got)
  }
  if got := GameTypeWordSequence.Harder(); got != GameTypeWordSequence {
    t.Fatalf("Harder() at the top must stay put, got %s", got)
  }
  if got := GameTypeWordSequence.Easier(); got != GameTypeSentenceSequence {
    t.Fatalf("Easier() = %s", got)
  }
  if got := GameTypeSentenceSequence.Easier(); got != GameTypeSentenceSequence {
    t.Fatalf("Easier() at the bottom must stay put, got %s", got)
  }
}
