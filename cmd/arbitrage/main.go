// Package main provides the entry point for the arbitrage scanner.
//
// The scanner searches a second-hand marketplace for each configured search
// term, prices every listing against a trade-in retailer's cash offer and
// records the listings that would sell on at a profit.
//
// Usage:
//
//	arbitrage run
//
// All settings come from the environment or a .env file.
package main

func main() {
	Execute()
}
