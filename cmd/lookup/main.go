// lookup runs the card lookup pipeline from the command line, without a
// server or a chat platform in front of it.
//
// Usage: lookup [flags] NAME...
//
// Each NAME argument is treated as one card request, qualifiers included,
// so quote them: lookup "shrivelling (3)". A deck or decklist URL can be
// passed with -deck and is composed the same way a pasted link would be.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/arkhambot/arkhambot/internal/services"
)

func main() {
	baseURL := flag.String("base-url", "", "Override the ArkhamDB base URL")
	deckURL := flag.String("deck", "", "Deck or decklist URL to compose")
	timeout := flag.Duration("timeout", 60*time.Second, "Overall time limit")
	flag.Parse()

	if flag.NArg() == 0 && *deckURL == "" {
		fmt.Println("Usage: lookup [flags] NAME...")
		fmt.Println("")
		fmt.Println("Looks up Arkham Horror LCG cards and decks on ArkhamDB.")
		fmt.Println("")
		fmt.Println("Options:")
		fmt.Println("  -base-url  Override the ArkhamDB base URL")
		fmt.Println("  -deck      Deck or decklist URL to compose")
		fmt.Println("  -timeout   Overall time limit (default 60s)")
		fmt.Println("")
		fmt.Println("Examples:")
		fmt.Println("  lookup \"shrivelling (3)\" \"lucky!\"")
		fmt.Println("  lookup -deck https://arkhamdb.com/decklist/view/101/example")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	arkhamService := services.NewArkhamDBService(*baseURL)
	catalogService := services.NewCatalogService(arkhamService)
	resolverService := services.NewResolverService(catalogService)
	lookupService := services.NewLookupService(catalogService, resolverService, arkhamService)

	log.Println("Loading card catalog...")
	if err := catalogService.Load(ctx); err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Printf("Loaded %d cards from ArkhamDB", catalogService.CardCount())

	// Rebuild the arguments into the message form the pipeline parses.
	var sb strings.Builder
	for _, arg := range flag.Args() {
		fmt.Fprintf(&sb, "[[%s]] ", arg)
	}
	if *deckURL != "" {
		sb.WriteString(*deckURL)
	}

	reply, err := lookupService.ProcessMessage(ctx, sb.String())
	switch {
	case errors.Is(err, services.ErrNoResults):
		fmt.Println(services.MsgNoResults)
		os.Exit(1)
	case errors.Is(err, services.ErrTooManyMatches):
		fmt.Println(services.MsgTooManyMatches)
		os.Exit(1)
	case err != nil:
		log.Fatalf("Lookup failed: %v", err)
	case reply == nil:
		fmt.Println("Nothing to look up.")
		return
	}

	for _, card := range reply.Cards {
		fmt.Printf("\n%s\n%s\n", card.Title, card.URL)
		for _, field := range card.Fields {
			// Unlabeled attribute rows carry a zero-width space as their name.
			if field.Name == "" || field.Name == "​" {
				fmt.Println(field.Value)
			} else {
				fmt.Printf("%s: %s\n", field.Name, field.Value)
			}
		}
		if card.Text != "" {
			fmt.Println(card.Text)
		}
	}

	if reply.DeckError != "" {
		fmt.Printf("\n%s\n", reply.DeckError)
	}
	for _, section := range reply.DeckSections {
		fmt.Printf("\n=== %s ===\n", section.Title)
		if section.URL != "" {
			fmt.Println(section.URL)
		}
		if section.Body != "" {
			fmt.Println(section.Body)
		}
	}

	if reply.Big {
		fmt.Printf("\n(big response: a chat adapter would move this to a thread named %q)\n", reply.ThreadName)
	}
}
