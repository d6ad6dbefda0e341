package main

import (
	"chat-relay/domain/chat"
	"chat-relay/repositories"
	"chat-relay/services"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// Config is the subset of the server configuration the seed needs.
type Config struct {
	BadgerFilepath      string        `env:"BADGER_FILEPATH,required=true"`
	AccessTokenSecret   string        `env:"ACCESS_TOKEN_SECRET,required=true"`
	AccessTokenDuration time.Duration `env:"ACCESS_TOKEN_DURATION,default=24h"`
}

// seed creates identities and one chat between them, then prints a signed
// token per identity so the gateway and the message routes can be exercised.
func main() {
	users := flag.String("users", "alice,bob", "Comma separated usernames")
	chatName := flag.String("chat", "general", "Name of the chat joining every user")
	flag.Parse()

	if err := run(strings.Split(*users, ","), *chatName); err != nil {
		color.Red.Printf("Seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run(usernames []string, chatName string) error {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLogger(nil))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() { _ = db.Close() }()

	userRepository := repositories.NewUserRepository(db)
	chatRepository := repositories.NewChatRepository(db)
	authService := services.NewAuthService(logs.GetLoggerFromString("WARN"), userRepository,
		[]byte(config.AccessTokenSecret), config.AccessTokenDuration)

	identities := lo.FilterMap(usernames, func(name string, _ int) (chat.Identity, bool) {
		name = strings.TrimSpace(name)
		return chat.Identity{
			ID:       chat.UserID(uuid.NewString()),
			Username: name,
			Email:    name + "@example.com",
			Avatar:   fmt.Sprintf("https://api.dicebear.com/9.x/initials/svg?seed=%s", name),
		}, name != ""
	})
	for _, identity := range identities {
		if err = userRepository.CreateUser(identity); err != nil {
			return err
		}
	}

	chatID := chat.ChatID(uuid.NewString())
	err = chatRepository.CreateChat(chat.Chat{
		ID:   chatID,
		Name: chatName,
		Participants: lo.Map(identities, func(i chat.Identity, _ int) chat.UserID {
			return i.ID
		}),
	})
	if err != nil {
		return err
	}

	color.Green.Printf("Chat %q created: %s\n\n", chatName, chatID)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Username", "User ID", "Access token"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, identity := range identities {
		token, err := authService.IssueToken(identity.ID)
		if err != nil {
			return err
		}
		table.Append([]string{identity.Username, string(identity.ID), token})
	}
	table.Render()
	return nil
}
