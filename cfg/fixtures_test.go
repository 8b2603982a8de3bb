package cfg

// Shared test fixtures: a small service graph with value, pointer and
// interface shapes.

type DB struct {
	DSN string
}

type Logger struct {
	Level string
}

type BasketService struct {
	DB     *DB
	Logger *Logger
}

type UserService struct {
	DB     *DB
	Logger *Logger
	Basket *BasketService
}

func newLogger() *Logger { return &Logger{Level: "info"} }

func newDB(dsn string) *DB { return &DB{DSN: dsn} }

func newBasketService(db *DB, logger *Logger) *BasketService {
	return &BasketService{DB: db, Logger: logger}
}

func newUserService(db *DB, logger *Logger, basket *BasketService) *UserService {
	return &UserService{DB: db, Logger: logger, Basket: basket}
}

// newFixtureRegistry wires the full fixture graph: Logger and DB are leaves
// (DB's constructor takes a builtin DSN string, so its branch is
// unresolvable), BasketService and UserService depend on them.
func newFixtureRegistry() *TypeRegistry {
	r := NewTypeRegistry()
	if _, err := RegisterCtor[*Logger](r, newLogger); err != nil {
		panic(err)
	}
	if _, err := RegisterCtor[*DB](r, newDB, "dsn"); err != nil {
		panic(err)
	}
	if _, err := RegisterCtor[*BasketService](r, newBasketService, "db", "logger"); err != nil {
		panic(err)
	}
	if _, err := RegisterCtor[*UserService](r, newUserService, "db", "logger", "basket"); err != nil {
		panic(err)
	}
	return r
}
