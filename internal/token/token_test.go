package token

import "testing"

func TestDecodeStripsNoise(t *testing.T) {
	prog, input := Decode([]byte("++ [hello] -- ; comment\n.<>"))
	want := "++[]--.<>"
	if string(prog) != want {
		t.Fatalf("got %q want %q", prog, want)
	}
	if input != nil {
		t.Fatalf("expected nil input, got %q", input)
	}
}

func TestDecodeSplitsOnBang(t *testing.T) {
	prog, input := Decode([]byte("+.!hello world"))
	if string(prog) != "+." {
		t.Fatalf("got %q", prog)
	}
	if string(input) != "hello world" {
		t.Fatalf("got input %q", input)
	}
}

func TestDecodeSemicolonComment(t *testing.T) {
	prog, _ := Decode([]byte("+;ignored\n-"))
	if string(prog) != "+-" {
		t.Fatalf("got %q", prog)
	}
}
