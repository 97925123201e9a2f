package cmdline

import "testing"

func TestParseCommandTail_UnquotedProgram(t *testing.T) {
	got := ParseCommandTail(`conlog.exe cmd.exe /C dir`)
	if want := "cmd.exe /C dir"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseCommandTail_QuotedProgram(t *testing.T) {
	got := ParseCommandTail(`"C:\Program Files\conlog.exe" cmd.exe /C dir`)
	if want := "cmd.exe /C dir"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseCommandTail_UnterminatedQuoteIsLenient(t *testing.T) {
	got := ParseCommandTail(`"C:\Program Files\conlog.exe`)
	if got != "" {
		t.Errorf("got %q, want empty tail for unterminated quote", got)
	}
}

func TestParseCommandTail_NoTail(t *testing.T) {
	got := ParseCommandTail(`conlog.exe`)
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestParseCommandTail_MultipleSpacesSkipped(t *testing.T) {
	got := ParseCommandTail("conlog.exe    cmd.exe")
	if want := "cmd.exe"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseCommandTail_PreservesQuotingInRemainder(t *testing.T) {
	got := ParseCommandTail(`conlog.exe cmd.exe /C "an arg with spaces"`)
	if want := `cmd.exe /C "an arg with spaces"`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractConfigFlag_NoFlagLeavesTailUntouched(t *testing.T) {
	path, rest := ExtractConfigFlag(`cmd.exe /C "an arg with spaces"`)
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if want := `cmd.exe /C "an arg with spaces"`; rest != want {
		t.Errorf("rest = %q, want %q", rest, want)
	}
}

func TestExtractConfigFlag_SpaceSeparatedValue(t *testing.T) {
	path, rest := ExtractConfigFlag(`-f conlog.yaml cmd.exe /C dir`)
	if path != "conlog.yaml" {
		t.Errorf("path = %q, want conlog.yaml", path)
	}
	if want := "cmd.exe /C dir"; rest != want {
		t.Errorf("rest = %q, want %q", rest, want)
	}
}

func TestExtractConfigFlag_EqualsSeparatedValue(t *testing.T) {
	path, rest := ExtractConfigFlag(`-f=conlog.yaml cmd.exe /C dir`)
	if path != "conlog.yaml" {
		t.Errorf("path = %q, want conlog.yaml", path)
	}
	if want := "cmd.exe /C dir"; rest != want {
		t.Errorf("rest = %q, want %q", rest, want)
	}
}

func TestExtractConfigFlag_QuotedValue(t *testing.T) {
	path, rest := ExtractConfigFlag(`-f "C:\My Config\conlog.yaml" cmd.exe`)
	if want := `C:\My Config\conlog.yaml`; path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if want := "cmd.exe"; rest != want {
		t.Errorf("rest = %q, want %q", rest, want)
	}
}

func TestExtractConfigFlag_DoesNotMatchLongerFlagName(t *testing.T) {
	path, rest := ExtractConfigFlag(`-foo cmd.exe`)
	if path != "" {
		t.Errorf("path = %q, want empty (should not match -foo)", path)
	}
	if want := "-foo cmd.exe"; rest != want {
		t.Errorf("rest = %q, want %q", rest, want)
	}
}

func TestExtractConfigFlag_PreservesChildQuotingInRemainder(t *testing.T) {
	path, rest := ExtractConfigFlag(`-f conlog.yaml cmd.exe /C "an arg with spaces"`)
	if path != "conlog.yaml" {
		t.Errorf("path = %q, want conlog.yaml", path)
	}
	if want := `cmd.exe /C "an arg with spaces"`; rest != want {
		t.Errorf("rest = %q, want %q", rest, want)
	}
}

func TestFirstToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`cmd.exe /C dir`, "cmd.exe"},
		{`"C:\Program Files\Git\bin\bash.exe" -l`, `C:\Program Files\Git\bin\bash.exe`},
		{`"C:\Program Files\unterminated`, `C:\Program Files\unterminated`},
		{`  powershell.exe`, "powershell.exe"},
		{``, ""},
	}
	for _, c := range cases {
		if got := FirstToken(c.in); got != c.want {
			t.Errorf("FirstToken(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestResolveCommand_FallsBackToComspec(t *testing.T) {
	t.Setenv("COMSPEC", `C:\Windows\System32\cmd.exe`)
	got, err := ResolveCommand("")
	if err != nil {
		t.Fatalf("ResolveCommand: %v", err)
	}
	if want := `C:\Windows\System32\cmd.exe`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveCommand_ErrorsWithoutComspecOrTail(t *testing.T) {
	t.Setenv("COMSPEC", "")
	if _, err := ResolveCommand(""); err == nil {
		t.Error("expected error when no command and no COMSPEC")
	}
}

func TestResolveCommand_PrefersExplicitTail(t *testing.T) {
	t.Setenv("COMSPEC", `C:\Windows\System32\cmd.exe`)
	got, err := ResolveCommand("powershell.exe")
	if err != nil {
		t.Fatalf("ResolveCommand: %v", err)
	}
	if want := "powershell.exe"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveCommand_PreservesQuotingInTail(t *testing.T) {
	got, err := ResolveCommand(`cmd.exe /C "an arg with spaces"`)
	if err != nil {
		t.Fatalf("ResolveCommand: %v", err)
	}
	if want := `cmd.exe /C "an arg with spaces"`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
