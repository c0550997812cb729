package main

import (
	"strings"
	"testing"

	"lendwire/internal/request"
)

func TestRequestsAddListShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"requests", "add", "Maria Alvarez", "15000"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("requests add: %v", err)
	}
	requireContains(t, out, "Created request")
	requireContains(t, out, "$15,000")
	requireContains(t, out, "medium tier")

	out, _, err = runCLI(t, []string{"requests", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("requests list: %v", err)
	}
	requireContains(t, out, "Maria Alvarez")
	requireContains(t, out, "Pending")

	id := firstRequestID(t, env)
	out, _, err = runCLI(t, []string{"requests", "show", id}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("requests show: %v", err)
	}
	requireContains(t, out, "Borrower:  Maria Alvarez")
	requireContains(t, out, "Tier:      medium")
}

func TestRequestsApproveAndReject(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"requests", "add", "Dmitri Volkov", "60000"}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("requests add: %v", err)
	}
	id := firstRequestID(t, env)

	out, _, err := runCLI(t, []string{"requests", "approve", id}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("requests approve: %v", err)
	}
	requireContains(t, out, "is now Approved")

	out, _, err = runCLI(t, []string{"requests", "approve", id}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("repeat approve: %v", err)
	}
	requireContains(t, out, "was already Approved")

	out, _, err = runCLI(t, []string{"requests", "reject", id}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("requests reject: %v", err)
	}
	requireContains(t, out, "is now Rejected")
}

func TestRequestsAddRejectsInvalidInput(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"requests", "add", "Bad Amount", "lots"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}

	_, _, err := runCLI(t, []string{"requests", "add", "X", "5000"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected error for short borrower name")
	}
	if !strings.Contains(err.Error(), "between 2 and 100 characters") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequestsListFilterAndEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"requests", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("requests list: %v", err)
	}
	requireContains(t, out, "No disbursement requests")

	if _, _, err := runCLI(t, []string{"requests", "add", "Ana Costa", "4000"}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("requests add: %v", err)
	}

	out, _, err = runCLI(t, []string{"requests", "list", "--status", "approved"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	requireContains(t, out, "No disbursement requests")
}

func TestStatsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"requests", "add", "Ana Costa", "4000"}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("requests add: %v", err)
	}
	if _, _, err := runCLI(t, []string{"requests", "add", "Jon Snow", "80000"}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("requests add: %v", err)
	}

	out, _, err := runCLI(t, []string{"stats"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, out, "Pending")
	requireContains(t, out, "Total: 2 requests, $84,000")
}

func firstRequestID(t *testing.T, env *cliTestEnv) string {
	t.Helper()
	list := env.daemon.Store().List(request.ListFilter{})
	if len(list) == 0 {
		t.Fatal("expected at least one stored request")
	}
	return list[0].ID
}
