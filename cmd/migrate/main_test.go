package main

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    command
		wantErr bool
	}{
		{name: "default up", args: nil, want: command{name: "up"}},
		{name: "down", args: []string{"down"}, want: command{name: "down"}},
		{name: "version upper", args: []string{"VERSION"}, want: command{name: "version"}},
		{name: "force", args: []string{"force", "1"}, want: command{name: "force", version: 1}},
		{name: "force missing version", args: []string{"force"}, wantErr: true},
		{name: "force bad version", args: []string{"force", "one"}, wantErr: true},
		{name: "unknown", args: []string{"drop"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCommand(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %v", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("parseCommand(%v) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}
