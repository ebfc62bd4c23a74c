package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidateAPIAddress(t *testing.T) {
	tests := []struct {
		name        string
		addr        string
		expectError bool
	}{
		{"default", DefaultAPIAddr, false},
		{"remote_ip", "192.168.1.20:9000", false},
		{"wildcard", "0.0.0.0:8009", true},
		{"zero_port", "127.0.0.1:0", true},
		{"missing_port", "127.0.0.1", true},
		{"hostname", "localhost:8009", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := Global.APIAddr
			defer func() { Global.APIAddr = saved }()

			Global.APIAddr = tt.addr
			err := ValidateAPIAddress()
			if (err != nil) != tt.expectError {
				t.Errorf("ValidateAPIAddress(%q) error = %v, expectError %v", tt.addr, err, tt.expectError)
			}
		})
	}
}

func TestValidateOutputFormat(t *testing.T) {
	saved := Global.Output
	defer func() { Global.Output = saved }()

	for _, output := range []string{"table", "json"} {
		Global.Output = output
		if err := ValidateOutputFormat(); err != nil {
			t.Errorf("ValidateOutputFormat(%q) = %v, want nil", output, err)
		}
	}

	Global.Output = "yaml"
	if err := ValidateOutputFormat(); err == nil {
		t.Error("ValidateOutputFormat(\"yaml\") = nil, want error")
	}
}

func resetSubmit() {
	Submit.PlanFile = "plan.yaml"
	Submit.SchoolURL = DefaultSchoolURL
	Submit.Endpoint = ""
	Submit.Cookie = ""
	Submit.Workers = DefaultWorkers
	Submit.Timeout = DefaultTimeout
	Submit.RetryCount = 0
	Submit.RequestsPerSecond = 0
}

func TestValidateSubmitFlags(t *testing.T) {
	tests := []struct {
		name          string
		modify        func()
		errorContains string
	}{
		{name: "defaults_ok", modify: func() {}},
		{name: "missing_plan", modify: func() { Submit.PlanFile = "" }, errorContains: "--plan"},
		{name: "too_many_workers", modify: func() { Submit.Workers = 1000 }, errorContains: "--workers"},
		{name: "negative_rps", modify: func() { Submit.RequestsPerSecond = -1 }, errorContains: "school server"},
		{name: "zero_timeout", modify: func() { Submit.Timeout = 0 }, errorContains: "school server"},
		{name: "bad_endpoint", modify: func() { Submit.Endpoint = "https://evil/x" }, errorContains: "--endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetSubmit()
			defer resetSubmit()
			tt.modify()

			err := ValidateSubmitFlags()
			if tt.errorContains == "" {
				if err != nil {
					t.Fatalf("ValidateSubmitFlags() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errorContains) {
				t.Errorf("ValidateSubmitFlags() error = %v, want it to contain %q", err, tt.errorContains)
			}
		})
	}
}

func TestValidateSubmitFlagsCookieFromEnv(t *testing.T) {
	resetSubmit()
	defer resetSubmit()
	t.Setenv(CookieEnvVar, "ASP.NET_SessionId=abc")

	if err := ValidateSubmitFlags(); err != nil {
		t.Fatalf("ValidateSubmitFlags() = %v", err)
	}
	if Submit.Cookie != "ASP.NET_SessionId=abc" {
		t.Errorf("Submit.Cookie = %q, want env value", Submit.Cookie)
	}
	if got := SchoolConfig().Cookie; got != Submit.Cookie {
		t.Errorf("SchoolConfig().Cookie = %q, want %q", got, Submit.Cookie)
	}
}

func TestSchoolConfigUserAgent(t *testing.T) {
	resetSubmit()
	defer resetSubmit()
	Submit.Timeout = 3 * time.Second

	cfg := SchoolConfig()
	if !strings.HasPrefix(cfg.UserAgent, "withdrawctl/") {
		t.Errorf("SchoolConfig().UserAgent = %q", cfg.UserAgent)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("SchoolConfig().Timeout = %v, want 3s", cfg.Timeout)
	}
}
