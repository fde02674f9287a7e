package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"studentfolio/internal/auth"
	"studentfolio/internal/config"
	"studentfolio/internal/database"
	"studentfolio/internal/repository"
)

const usage = `usage: admin <command> [flags]

commands:
  seed-templates   写入模板目录（四种标准版式 + 历史别名），可选投递预览图任务
  dev-token        使用共享密钥签发本地开发用的访问令牌`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "seed-templates":
		err = runSeedTemplates(os.Args[2:])
	case "dev-token":
		err = runDevToken(os.Args[2:])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runSeedTemplates(args []string) error {
	fs := flag.NewFlagSet("seed-templates", flag.ExitOnError)
	var (
		dbHost   = fs.String("db-host", "", "数据库 Host（可选，默认读 DATABASE_HOST）")
		dbPort   = fs.Int("db-port", 0, "数据库 Port（可选，默认读 DATABASE_PORT）")
		dbName   = fs.String("db-name", "", "数据库名（可选，默认读 POSTGRES_DB）")
		dbUser   = fs.String("db-user", "", "数据库用户（可选，默认读 POSTGRES_USER）")
		dbPass   = fs.String("db-password", "", "数据库密码（可选，默认读 POSTGRES_PASSWORD）")
		sslMode  = fs.String("db-sslmode", "", "数据库 SSLMODE（可选，默认读 DATABASE_SSLMODE）")
		previews = fs.Bool("previews", false, "写入后为启用的模板投递预览图任务")
		redis    = fs.String("redis-addr", "", "Redis 地址（可选，默认读 REDIS_HOST/REDIS_PORT）")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	dbCfg, err := loadDatabaseConfig(*dbHost, *dbPort, *dbName, *dbUser, *dbPass, *sslMode)
	if err != nil {
		return fmt.Errorf("load database config: %w", err)
	}
	db, err := database.InitDatabase(dbCfg)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	ctx := context.Background()
	seeded, err := seedTemplates(ctx, repository.NewTemplateStore(db))
	if err != nil {
		return err
	}
	for _, tpl := range seeded {
		fmt.Printf("%-22s active=%-5t id=%s\n", tpl.TemplateKey, tpl.IsActive, tpl.ID)
	}

	if !*previews {
		return nil
	}
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr(*redis)})
	defer client.Close()

	n, err := enqueuePreviews(ctx, client, seeded)
	if err != nil {
		return err
	}
	fmt.Printf("已投递 %d 个预览图任务\n", n)
	return nil
}

func runDevToken(args []string) error {
	fs := flag.NewFlagSet("dev-token", flag.ExitOnError)
	var (
		user     = fs.String("user", "", "用户 ID（UUID，缺省随机生成）")
		email    = fs.String("email", "student@example.com", "令牌中的邮箱")
		ttl      = fs.Duration("ttl", 24*time.Hour, "有效期")
		secret   = fs.String("secret", "", "HS256 共享密钥（可选，默认读 AUTH_JWT_SECRET）")
		audience = fs.String("audience", "", "aud（可选，默认读 AUTH_AUDIENCE）")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	key := firstNonEmpty(*secret, os.Getenv("AUTH_JWT_SECRET"))
	if key == "" {
		return errors.New("missing jwt secret: --secret or AUTH_JWT_SECRET")
	}

	userID := uuid.New()
	if strings.TrimSpace(*user) != "" {
		parsed, err := uuid.Parse(strings.TrimSpace(*user))
		if err != nil {
			return fmt.Errorf("parse --user: %w", err)
		}
		userID = parsed
	}

	token, err := auth.IssueToken(key, userID, *email, firstNonEmpty(*audience, os.Getenv("AUTH_AUDIENCE")), *ttl)
	if err != nil {
		return err
	}
	fmt.Printf("user_id: %s\n", userID)
	fmt.Printf("token:   %s\n", token)
	return nil
}

func redisAddr(flagValue string) string {
	if addr := strings.TrimSpace(flagValue); addr != "" {
		return addr
	}
	host := firstNonEmpty(os.Getenv("REDIS_HOST"), "localhost")
	port := firstNonEmpty(os.Getenv("REDIS_PORT"), "6379")
	return host + ":" + port
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func loadDatabaseConfig(host string, port int, name, user, password, sslmode string) (config.DatabaseConfig, error) {
	host = firstNonEmpty(host, os.Getenv("DATABASE_HOST"), "localhost")
	if port <= 0 {
		if env := strings.TrimSpace(os.Getenv("DATABASE_PORT")); env != "" {
			p, err := strconv.Atoi(env)
			if err != nil {
				return config.DatabaseConfig{}, fmt.Errorf("parse DATABASE_PORT: %w", err)
			}
			port = p
		}
	}
	if port <= 0 {
		port = 5432
	}
	name = firstNonEmpty(name, os.Getenv("POSTGRES_DB"))
	user = firstNonEmpty(user, os.Getenv("POSTGRES_USER"))
	password = firstNonEmpty(password, os.Getenv("POSTGRES_PASSWORD"))
	sslmode = firstNonEmpty(sslmode, os.Getenv("DATABASE_SSLMODE"), "disable")

	if name == "" {
		return config.DatabaseConfig{}, errors.New("database name is required (POSTGRES_DB)")
	}
	if user == "" {
		return config.DatabaseConfig{}, errors.New("database user is required (POSTGRES_USER)")
	}
	if password == "" {
		return config.DatabaseConfig{}, errors.New("database password is required (POSTGRES_PASSWORD)")
	}

	return config.DatabaseConfig{
		Host:     host,
		Port:     port,
		Name:     name,
		User:     user,
		Password: password,
		SSLMode:  sslmode,
	}, nil
}
