package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/raf-alpha/api-go/client"
	"github.com/raf-alpha/api-go/formstate"
	"github.com/raf-alpha/api-go/types"
	"github.com/spf13/cobra"
)

func readImage(path string) (formstate.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return formstate.File{}, fmt.Errorf("read image: %w", err)
	}
	return formstate.File{
		Name:        filepath.Base(path),
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	}, nil
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

func newLoginCmd(g *globals) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			res, err := c.Login(cmd.Context(), email, password)
			if err != nil {
				return explain(err)
			}
			return g.print(map[string]any{"user": res.User, "refreshToken": res.RefreshToken})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (ADMIN_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(g *globals) *cobra.Command {
	var refresh string
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Revoke the refresh token and forget the access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			return explain(c.Logout(cmd.Context(), refresh))
		},
	}
	cmd.Flags().StringVar(&refresh, "refresh-token", "", "refresh token returned by login")
	return cmd
}

func newPasswordCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "password", Short: "Reset a forgotten password"}

	cmd.AddCommand(&cobra.Command{
		Use:   "send-code EMAIL",
		Short: "Mail a reset code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			return explain(c.SendResetCode(cmd.Context(), args[0]))
		},
	})

	var in types.ResetPasswordInput
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password with the mailed code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			return explain(c.ResetPassword(cmd.Context(), in))
		},
	}
	reset.Flags().StringVar(&in.Email, "email", "", "account email")
	reset.Flags().StringVar(&in.VerificationCode, "code", "", "6 digit code from the email")
	reset.Flags().StringVar(&in.NewPassword, "new", "", "new password")
	cmd.AddCommand(reset)
	return cmd
}

func newUsersCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Manage admin accounts"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List admins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			users, err := c.ListUsers(cmd.Context())
			if err != nil {
				return explain(err)
			}
			return g.print(users)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "send-code EMAIL",
		Short: "Mail the verification code a new admin needs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			return explain(c.SendVerificationCode(cmd.Context(), args[0]))
		},
	})

	var add types.UserInput
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create an admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			u, err := c.AddUser(cmd.Context(), add)
			if err != nil {
				return explain(err)
			}
			return g.print(u)
		},
	}
	addCmd.Flags().StringVar(&add.FirstName, "first", "", "first name")
	addCmd.Flags().StringVar(&add.MiddleName, "middle", "", "middle name")
	addCmd.Flags().StringVar(&add.LastName, "last", "", "last name")
	addCmd.Flags().StringVar(&add.Email, "email", "", "email")
	addCmd.Flags().StringVar(&add.Phone, "phone", "", "Saudi mobile number")
	addCmd.Flags().StringVar(&add.Role, "role", types.RoleAdmin, "Admin or SuperAdmin")
	addCmd.Flags().StringVar(&add.VerificationCode, "code", "", "verification code")
	addCmd.Flags().StringVar(&add.Password, "password", "", "initial password")
	cmd.AddCommand(addCmd)

	var edit types.UserEditInput
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change an admin's names or phone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			u, err := c.UpdateUser(cmd.Context(), id, edit)
			if err != nil {
				return explain(err)
			}
			return g.print(u)
		},
	}
	updateCmd.Flags().StringVar(&edit.FirstName, "first", "", "first name")
	updateCmd.Flags().StringVar(&edit.MiddleName, "middle", "", "middle name")
	updateCmd.Flags().StringVar(&edit.LastName, "last", "", "last name")
	updateCmd.Flags().StringVar(&edit.Phone, "phone", "", "Saudi mobile number")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete an admin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			return explain(c.DeleteUser(cmd.Context(), id))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "generate-password",
		Short: "Print a password that meets the strength rule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			p, err := c.GeneratePassword(cmd.Context())
			if err != nil {
				return explain(err)
			}
			_, err = fmt.Fprintln(g.out, p)
			return err
		},
	})
	return cmd
}

func newCategoryCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "category", Short: "Read and create categories"}

	cmd.AddCommand(&cobra.Command{
		Use:   "get ID",
		Short: "Show a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			cat, err := c.GetCategory(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			return g.print(cat)
		},
	})

	var in types.CategoryInput
	var image string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a category in the --lang language",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			draft := c.NewCategoryDraft(c.Lang())
			if image != "" {
				f, err := readImage(image)
				if err != nil {
					return err
				}
				draft.SetImage(f)
			}
			if in.GoogleMapsLink != "" && !draft.PasteMapsLink(in.GoogleMapsLink) {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: no coordinates found in the maps link")
			}
			cat, err := draft.Submit(cmd.Context(), in)
			if err != nil {
				return explain(err)
			}
			return g.print(cat)
		},
	}
	create.Flags().StringVar(&in.Title, "title", "", "title")
	create.Flags().Float64Var(&in.Area, "area", 0, "area in square metres")
	create.Flags().StringVar(&in.Location, "location", "", "location")
	create.Flags().StringVar(&in.Description, "description", "", "description, HTML allowed")
	create.Flags().Float64Var(&in.Latitude, "lat", 0, "latitude")
	create.Flags().Float64Var(&in.Longitude, "lng", 0, "longitude")
	create.Flags().StringVar(&in.GoogleMapsLink, "maps-link", "", "Google Maps link to take coordinates from")
	create.Flags().StringVar(&image, "image", "", "cover image path")
	cmd.AddCommand(create)
	return cmd
}

func readUnitData(path string, in *types.UnitInput) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read unit data: %w", err)
	}
	if err := json.Unmarshal(raw, in); err != nil {
		return fmt.Errorf("decode unit data: %w", err)
	}
	return nil
}

func stageImages(s *client.UnitSession, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	files := make([]formstate.File, 0, len(paths))
	for _, p := range paths {
		f, err := readImage(p)
		if err != nil {
			return err
		}
		files = append(files, f)
	}
	s.Dispatch(formstate.SetImages{Files: files})
	if len(s.State.Staged) < len(files) {
		return fmt.Errorf("only %d more images fit, got %d", s.State.Capacity(), len(files))
	}
	return nil
}

func newUnitCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "unit", Short: "Read, add and edit units"}

	cmd.AddCommand(&cobra.Command{
		Use:   "get ID",
		Short: "Show a unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			u, err := c.GetUnit(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			return g.print(u)
		},
	})

	var categoryID, dataFile string
	var images []string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a unit from a JSON data file and images",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			var in types.UnitInput
			if err := readUnitData(dataFile, &in); err != nil {
				return err
			}
			s := c.NewUnitDraft(categoryID, c.Lang())
			s.Dispatch(formstate.SetEntries[types.NearbyPlace]{Entries: in.NearbyPlaces})
			if err := stageImages(s, images); err != nil {
				return err
			}
			u, err := s.Submit(cmd.Context(), in)
			if err != nil {
				return explain(err)
			}
			return g.print(u)
		},
	}
	add.Flags().StringVar(&categoryID, "category", "", "category id")
	add.Flags().StringVar(&dataFile, "data", "", "unit fields as JSON")
	add.Flags().StringSliceVar(&images, "image", nil, "image path, repeatable")
	_ = add.MarkFlagRequired("data")
	cmd.AddCommand(add)

	var editData string
	var editImages, remove []string
	edit := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a unit: change fields, remove images, add images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			s, err := c.EditUnit(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			in := s.Input()
			if err := readUnitData(editData, &in); err != nil {
				return err
			}
			s.Dispatch(formstate.SetEntries[types.NearbyPlace]{Entries: in.NearbyPlaces})
			for _, id := range remove {
				s.Dispatch(formstate.RemoveExistingImage{ID: id})
			}
			if err := stageImages(s, editImages); err != nil {
				return err
			}
			u, err := s.Submit(cmd.Context(), in)
			if err != nil {
				return explain(err)
			}
			return g.print(u)
		},
	}
	edit.Flags().StringVar(&editData, "data", "", "JSON with the fields to change")
	edit.Flags().StringSliceVar(&editImages, "image", nil, "new image path, repeatable")
	edit.Flags().StringSliceVar(&remove, "remove", nil, "existing image id to remove, repeatable")
	cmd.AddCommand(edit)
	return cmd
}

func newCoordsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "coords LINK",
		Short: "Print the coordinates in a Google Maps link",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			coords, ok := client.ExtractCoordinates(args[0])
			if !ok {
				return errors.New("no coordinates found in the link")
			}
			return g.print(coords)
		},
	}
}

func newWatchCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print dashboard notifications as they arrive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			events, err := c.Notifications(cmd.Context())
			if err != nil {
				return explain(err)
			}
			for e := range events {
				if err := g.print(e); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
