package auth

import (
	"os"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"padel-backend/internal"
	"padel-backend/internal/users"
)

type Login struct {
	UserData string `json:"userData"` // name or email
	Password string `json:"password"`
}

// incorrectCredentials is the single message for a failed login. Unknown
// identity and wrong password must be indistinguishable so callers cannot
// probe which accounts exist.
const incorrectCredentials = "incorrect user or password"

// Login checks the credentials and issues a session token.
func (r *Login) Login(db *mongo.Database) (*users.User, string, error) {
	if r.UserData == "" || r.Password == "" {
		return nil, "", internal.Errorf(internal.KindUnauthorized, incorrectCredentials)
	}

	found, lookupErr := users.FromIdentity(r.UserData, db)
	user, err := checkCredentials(found, lookupErr, r.Password)
	if err != nil {
		ee := internal.ErrorFormat{Package: "internal.auth", Level: log.WarnLevel, Function: "auth.Login", Message: "login rejected"}
		ee.Print()
		return nil, "", err
	}

	session := Session{
		ID: user.ID,
	}

	err = session.Create(db)
	if err != nil {
		ee := internal.ErrorFormat{Package: "internal.auth", Level: log.ErrorLevel, Function: "auth.Login", ObjectID: user.ID, Message: "unable to create session", Error: err}
		ee.Print()
		return nil, "", ee.ToError()
	}

	t, err := SignedToken(&session)
	if err != nil {
		ee := internal.ErrorFormat{Package: "internal.auth", Level: log.ErrorLevel, Function: "auth.Login", Message: "unable to generate session token", Error: err}
		ee.Print()
		return nil, "", err
	}

	return user, t, nil
}

// checkCredentials folds the identity lookup and the password comparison
// into one outcome. A missing user and a wrong password both return the
// generic error; a failed store lookup surfaces as an internal error.
func checkCredentials(user *users.User, lookupErr error, password string) (*users.User, error) {
	if lookupErr != nil {
		if internal.KindOf(lookupErr) == internal.KindNotFound {
			return nil, internal.Errorf(internal.KindUnauthorized, incorrectCredentials)
		}
		return nil, lookupErr
	}

	if !users.CheckPassword(user.Password, password) {
		return nil, internal.Errorf(internal.KindUnauthorized, incorrectCredentials)
	}

	return user, nil
}

type Register struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Image    string `json:"-"` // stored path of an uploaded avatar, set by the handler
}

// Register validates the request, rejects duplicates and creates the user.
// Self-registration can never produce an admin.
func (r *Register) Register(db *mongo.Database) (*users.User, error) {
	err := users.ValidateRegistration(r.Name, r.Email, r.Password, r.Phone)
	if err != nil {
		return nil, err
	}

	phone, err := users.PhoneFromString(r.Phone)
	if err != nil {
		return nil, err
	}

	if r.Role != "" && r.Role != string(users.RoleUser) {
		return nil, internal.Errorf(internal.KindForbidden, "you are not allowed to register with the admin role")
	}

	existing, lookupErr := users.FindConflicting(r.Name, r.Email, phone, primitive.NilObjectID, db)
	if err := users.CheckConflict(existing, lookupErr, r.Name, r.Email, phone); err != nil {
		return nil, err
	}

	user := users.User{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Phone:    phone,
		Role:     users.RoleUser,
		Image:    r.Image,
	}

	err = user.Create(db)
	if err != nil {
		return nil, err
	}

	out, err := user.FromID(db)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// SignedToken signs the session claims with the shared key.
func SignedToken(s *Session) (string, error) {
	claims := jwt.MapClaims{
		"item_id":    s.ID.Hex(),
		"session_id": s.SessionID.Hex(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(os.Getenv("KEY")))
}
