package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"dog-inventory/core/config"
	"dog-inventory/core/expression"
	"dog-inventory/core/reconcile"

	"go.uber.org/zap"
)

// Replays a captured dog dataset through the reconciler without network
// access. The fixture holds the raw API payloads:
//
//	{"hosts": [...], "groups": [...], "facts": {"<name>": {...}}}
//
// Inventory options are read from dog.yml / .env in the working directory.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: debug_reconcile <fixture.json> [host]")
	}

	cfg, err := config.LoadConfig(".", "")
	if err != nil {
		log.Fatal(err)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	var src reconcile.MemorySource
	if err := json.Unmarshal(data, &src); err != nil {
		log.Fatal(err)
	}

	l, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("=== STEP 1: Fixture ===")
	fmt.Printf("Hosts: %d, groups: %d, facts: %d\n", len(src.Hosts), len(src.Groups), len(src.Facts))

	fmt.Println("\n=== STEP 2: Reconcile ===")
	engine := reconcile.NewEngine(&src, expression.NewExpr(), l)
	res, err := engine.Reconcile(context.Background(), cfg.Inventory)
	if err != nil {
		var re *reconcile.ReconcileError
		if errors.As(err, &re) && re.Stack != nil {
			fmt.Println(string(re.Stack))
		}
		log.Fatal(err)
	}

	r := res.Report
	fmt.Printf("Fetched: %d, admitted: %d, filtered: %d, skipped: %d, groups: %d\n",
		r.HostsFetched, r.HostsAdmitted, r.HostsFiltered, r.HostsSkipped, r.Groups)

	fmt.Println("\n=== STEP 3: Graph ===")
	fmt.Print(res.Graph.Tree())

	if len(os.Args) > 2 {
		host := os.Args[2]
		fmt.Printf("\n=== STEP 4: Host %s ===\n", host)
		if vars, ok := res.Graph.HostVars(host); ok {
			out, _ := json.MarshalIndent(vars, "", "  ")
			fmt.Println(string(out))
		} else {
			fmt.Println("NOT FOUND in graph")
		}
	}

	// Save detailed output
	output, _ := json.MarshalIndent(res.Graph.Export().Map(), "", "  ")
	if err := os.WriteFile("debug_reconcile.json", output, 0644); err != nil {
		log.Fatal(err)
	}

	fmt.Println("\nDebug complete. Check debug_reconcile.json for details.")
}
