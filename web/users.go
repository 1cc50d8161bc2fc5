package web

import (
	"net/http"
	"strings"

	"github.com/kataras/iris/v12"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"padel-backend/internal"
	"padel-backend/internal/auth"
	"padel-backend/internal/matches"
	"padel-backend/internal/uploads"
	"padel-backend/internal/users"
)

// fail writes the error as a json body with the status code its kind maps to.
func fail(ctx iris.Context, err error) error {
	ctx.StatusCode(internal.KindOf(err).Status())
	return ctx.JSON(iris.Map{"message": err.Error()})
}

// caller resolves the verified token claims back to the requesting user.
func caller(ctx iris.Context, db *mongo.Database) (*users.User, error) {
	t := GetClaims(ctx)
	return t.Caller(db)
}

// expand projects users into response views with their match references
// expanded, using a single projector derived from the caller's role.
func expand(list []users.User, role users.Role, db *mongo.Database) ([]users.View, error) {
	project := users.ProjectorFor(role)

	views := make([]users.View, 0, len(list))
	for i := range list {
		expanded, err := matches.FromIDs(list[i].PadelMatches, db)
		if err != nil {
			return nil, err
		}
		views = append(views, project(&list[i], expanded))
	}
	return views, nil
}

func expandOne(u *users.User, role users.Role, db *mongo.Database) (users.View, error) {
	views, err := expand([]users.User{*u}, role, db)
	if err != nil {
		return users.View{}, err
	}
	return views[0], nil
}

type updateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func addRouteUsers(r *Router) []*Route {
	var tempRoutes []*Route

	tempRoutes = append(tempRoutes, &Route{
		Name: "Register User",
		Path: "/users",
		JWT:  false,
		Func: func(ctx iris.Context) error {
			var reg auth.Register

			// multer-style multipart form with an optional avatar, or plain json
			if strings.HasPrefix(ctx.GetHeader("Content-Type"), "multipart/form-data") {
				reg.Name = ctx.FormValue("name")
				reg.Email = ctx.FormValue("email")
				reg.Password = ctx.FormValue("password")
				reg.Phone = ctx.FormValue("phone")
				reg.Role = ctx.FormValue("role")

				_, fh, err := ctx.FormFile("image")
				if err == nil {
					path, err := uploads.Save(fh)
					if err != nil {
						return fail(ctx, err)
					}
					reg.Image = path
				}
			} else {
				err := ctx.ReadJSON(&reg)
				if err != nil {
					return fail(ctx, internal.Errorf(internal.KindValidation, "invalid request body"))
				}
			}

			created, err := reg.Register(r.DB)
			if err != nil {
				// don't leave an orphaned file behind a rejected registration
				if reg.Image != "" {
					uploads.Delete(reg.Image)
				}
				return fail(ctx, err)
			}

			view, err := expandOne(created, created.Role, r.DB)
			if err != nil {
				return fail(ctx, err)
			}

			message := "user created successfully"
			if reg.Image == "" {
				message = "user created successfully, no image was uploaded"
			}

			ctx.StatusCode(http.StatusCreated)
			return ctx.JSON(iris.Map{"message": message, "user": view})
		},
		Type: RouteType_POST,
	})

	tempRoutes = append(tempRoutes, &Route{
		Name: "Login User",
		Path: "/users/login",
		JWT:  false,
		Func: func(ctx iris.Context) error {
			var l auth.Login
			err := ctx.ReadJSON(&l)
			if err != nil {
				return fail(ctx, internal.Errorf(internal.KindValidation, "invalid request body"))
			}

			user, token, err := l.Login(r.DB)
			if err != nil {
				return fail(ctx, err)
			}

			view, err := expandOne(user, user.Role, r.DB)
			if err != nil {
				return fail(ctx, err)
			}

			return ctx.JSON(iris.Map{"message": "login successful", "user": view, "token": token})
		},
		Type: RouteType_POST,
	})

	tempRoutes = append(tempRoutes, &Route{
		Name: "Get All Users",
		Path: "/users",
		JWT:  true,
		Func: func(ctx iris.Context) error {
			c, err := caller(ctx, r.DB)
			if err != nil {
				return fail(ctx, err)
			}

			all, err := users.All(r.DB)
			if err != nil {
				return fail(ctx, err)
			}

			views, err := expand(all, c.Role, r.DB)
			if err != nil {
				return fail(ctx, err)
			}

			return ctx.JSON(iris.Map{"message": "all users", "users": views})
		},
		Type: RouteType_GET,
	})

	tempRoutes = append(tempRoutes, &Route{
		Name: "Get Users By Name",
		Path: "/users/name/{name}",
		JWT:  true,
		Func: func(ctx iris.Context) error {
			c, err := caller(ctx, r.DB)
			if err != nil {
				return fail(ctx, err)
			}

			name := ctx.Params().Get("name")

			found, err := users.FindByName(name, r.DB)
			if err != nil {
				return fail(ctx, err)
			}
			if len(found) == 0 {
				return fail(ctx, internal.Errorf(internal.KindNotFound, "no users found with the name %s", name))
			}

			views, err := expand(found, c.Role, r.DB)
			if err != nil {
				return fail(ctx, err)
			}

			return ctx.JSON(iris.Map{"message": "users found", "users": views})
		},
		Type: RouteType_GET,
	})

	tempRoutes = append(tempRoutes, &Route{
		Name: "Get Users By Phone",
		Path: "/users/phone/{phone}",
		JWT:  true,
		Func: func(ctx iris.Context) error {
			c, err := caller(ctx, r.DB)
			if err != nil {
				return fail(ctx, err)
			}

			phone, err := users.PhoneFromString(ctx.Params().Get("phone"))
			if err != nil {
				return fail(ctx, err)
			}

			found, err := users.FindByPhone(phone, r.DB)
			if err != nil {
				return fail(ctx, err)
			}
			if len(found) == 0 {
				return fail(ctx, internal.Errorf(internal.KindNotFound, "no users found with the phone %d", phone))
			}

			views, err := expand(found, c.Role, r.DB)
			if err != nil {
				return fail(ctx, err)
			}

			return ctx.JSON(iris.Map{"message": "users found", "users": views})
		},
		Type: RouteType_GET,
	})

	tempRoutes = append(tempRoutes, &Route{
		Name: "Update User",
		Path: "/users/{id}",
		JWT:  true,
		Func: func(ctx iris.Context) error {
			c, err := caller(ctx, r.DB)
			if err != nil {
				return fail(ctx, err)
			}

			uId, err := primitive.ObjectIDFromHex(ctx.Params().Get("id"))
			if err != nil {
				return fail(ctx, internal.Errorf(internal.KindValidation, "invalid user id"))
			}

			if !users.CanActOn(c, uId) {
				return fail(ctx, internal.Errorf(internal.KindForbidden, "you are not allowed to modify another user"))
			}

			var req updateRequest
			var newImage *string

			if strings.HasPrefix(ctx.GetHeader("Content-Type"), "multipart/form-data") {
				req.Name = ctx.FormValue("name")
				req.Email = ctx.FormValue("email")
				req.Password = ctx.FormValue("password")
				req.Phone = ctx.FormValue("phone")

				_, fh, err := ctx.FormFile("image")
				if err == nil {
					path, err := uploads.Save(fh)
					if err != nil {
						return fail(ctx, err)
					}
					newImage = &path
				}
			} else {
				err := ctx.ReadJSON(&req)
				if err != nil {
					return fail(ctx, internal.Errorf(internal.KindValidation, "invalid request body"))
				}
			}

			u := users.User{ID: uId}
			target, err := u.FromID(r.DB)
			if err != nil {
				if newImage != nil {
					uploads.Delete(*newImage)
				}
				return fail(ctx, err)
			}

			var phone int64
			if req.Phone != "" {
				phone, err = users.PhoneFromString(req.Phone)
				if err != nil {
					if newImage != nil {
						uploads.Delete(*newImage)
					}
					return fail(ctx, err)
				}
			}

			// a record never conflicts with itself
			existing, lookupErr := users.FindConflicting(req.Name, req.Email, phone, uId, r.DB)
			if err := users.CheckConflict(existing, lookupErr, req.Name, req.Email, phone); err != nil {
				if newImage != nil {
					uploads.Delete(*newImage)
				}
				return fail(ctx, err)
			}

			if req.Name != "" {
				target.Name = req.Name
			}
			if req.Email != "" {
				target.Email = req.Email
			}
			if phone != 0 {
				target.Phone = phone
			}
			if req.Password != "" {
				err = target.SetPassword(req.Password)
				if err != nil {
					if newImage != nil {
						uploads.Delete(*newImage)
					}
					return fail(ctx, err)
				}
			}
			if newImage != nil {
				uploads.Delete(target.Image)
				target.Image = *newImage
			}

			err = target.Replace(r.DB)
			if err != nil {
				return fail(ctx, err)
			}

			view, err := expandOne(target, c.Role, r.DB)
			if err != nil {
				return fail(ctx, err)
			}

			return ctx.JSON(iris.Map{"message": "user updated successfully", "user": view})
		},
		Type: RouteType_PUT,
	})

	tempRoutes = append(tempRoutes, &Route{
		Name: "Delete User",
		Path: "/users/{id}",
		JWT:  true,
		Func: func(ctx iris.Context) error {
			c, err := caller(ctx, r.DB)
			if err != nil {
				return fail(ctx, err)
			}

			uId, err := primitive.ObjectIDFromHex(ctx.Params().Get("id"))
			if err != nil {
				return fail(ctx, internal.Errorf(internal.KindValidation, "invalid user id"))
			}

			if !users.CanActOn(c, uId) {
				return fail(ctx, internal.Errorf(internal.KindForbidden, "you are not allowed to delete another user"))
			}

			u := users.User{ID: uId}
			deleted, err := u.Delete(r.DB)
			if err != nil {
				return fail(ctx, err)
			}

			uploads.Delete(deleted.Image)

			view, err := expandOne(deleted, c.Role, r.DB)
			if err != nil {
				return fail(ctx, err)
			}

			return ctx.JSON(iris.Map{"message": "user deleted successfully", "user": view})
		},
		Type: RouteType_DELETE,
	})

	return tempRoutes
}
