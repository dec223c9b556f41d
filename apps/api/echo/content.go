package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alphauniversity/portal/core"
	"github.com/alphauniversity/portal/core/content"
)

// courseDetail is the shared course page: notes plus uploaded materials.
func (api *portalApi) courseDetail(ctx echo.Context) error {
	courseID := ctx.Param("id")
	if _, ok := api.catalog.Course(courseID); !ok {
		return errHttpNotFound
	}

	notes, err := api.store.ReadNotes(courseID)
	if err != nil {
		return err
	}
	files, err := api.store.ListMaterials(courseID)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, echo.Map{
		"course_id":     courseID,
		"lecture_notes": notes,
		"lecture_files": files,
	})
}

func (api *portalApi) downloadMaterial(ctx echo.Context) error {
	courseID := ctx.Param("courseID")
	filename := ctx.Param("filename")

	f, err := api.store.OpenMaterial(courseID, filename)
	if err != nil {
		return errHttpNotFound
	}
	defer f.Close()

	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return ctx.Stream(http.StatusOK, echo.MIMEOctetStream, f)
}

// ------------------------------ student ------------------------------

func (api *portalApi) studentHome(ctx echo.Context) error {
	claims, _ := getSessionClaims(ctx)

	// no per-student enrollment data yet; every student sees the default set
	announcements := make(map[string][]string, len(api.catalog.DefaultEnrollment))
	for _, code := range api.catalog.DefaultEnrollment {
		items, err := api.store.ListAnnouncements(code)
		if err != nil {
			return err
		}
		announcements[code] = items
	}
	return respond(ctx, http.StatusOK, echo.Map{
		"username":      claims.Username,
		"courses":       api.catalog.DefaultEnrollment,
		"announcements": announcements,
	})
}

func (api *portalApi) studentCourseDetail(ctx echo.Context) error {
	return api.courseDetail(ctx)
}

func (api *portalApi) uploadAssignment(ctx echo.Context) error {
	courseID := ctx.FormValue("course_id")
	fileHdr, err := ctx.FormFile("file")
	if err != nil || courseID == "" {
		return core.NewValidationError(errors.New("course and file are required"))
	}

	src, err := fileHdr.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	if err = api.store.SaveAssignment(courseID, fileHdr.Filename, src); err != nil {
		return err
	}

	addFlash(ctx, "success", "Assignment submitted successfully.")
	return respond(ctx, http.StatusCreated, echo.Map{"course_id": courseID})
}

// ------------------------------ teacher ------------------------------

func (api *portalApi) teacherHome(ctx echo.Context) error {
	claims, _ := getSessionClaims(ctx)
	return respond(ctx, http.StatusOK, echo.Map{
		"username":  claims.Username,
		"faculties": api.catalog.Faculties,
	})
}

func (api *portalApi) uploadAnnouncement(ctx echo.Context) error {
	courseID := ctx.FormValue("course_id")
	title := ctx.FormValue("announcement_title")
	body := ctx.FormValue("announcement_content")

	if err := api.store.PostAnnouncement(courseID, title, body); err != nil {
		return err
	}

	addFlash(ctx, "success", "Announcement posted successfully.")
	return respond(ctx, http.StatusCreated, echo.Map{"course_id": courseID})
}

func (api *portalApi) uploadCourseLectureForm(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, echo.Map{
		"page":      "upload-course-lecture",
		"faculties": api.catalog.Faculties,
	})
}

// uploadCourseLecture saves one uploaded material file (when present) and the
// notes text in a single submission. The material goes first: a rejected file
// must abort the whole submission before any notes are written.
func (api *portalApi) uploadCourseLecture(ctx echo.Context) error {
	courseID := ctx.FormValue("course_id")
	if courseID == "" {
		return core.NewValidationError(errors.New("course is required"),
			core.FieldError{Field: "course_id", Error: "course is required"})
	}

	if fileHdr, err := ctx.FormFile("file"); err == nil {
		src, err := fileHdr.Open()
		if err != nil {
			return err
		}
		defer src.Close()

		if err = api.store.SaveMaterial(courseID, fileHdr.Filename, src); err != nil {
			if errors.Cause(err) == content.ErrUnsupportedType {
				addFlash(ctx, "danger", "File type not allowed.")
				return respond(ctx, http.StatusBadRequest, echo.Map{"course_id": courseID})
			}
			return err
		}
	}

	if notes := ctx.FormValue("lecture_notes"); notes != "" {
		if err := api.store.WriteNotes(courseID, notes); err != nil {
			return err
		}
	}

	addFlash(ctx, "success", "Lecture uploaded successfully.")
	return respond(ctx, http.StatusCreated, echo.Map{"course_id": courseID})
}

// ------------------------------ shared course pages ------------------------------

func (api *portalApi) grades(ctx echo.Context) error {
	// grade book not implemented yet; the page renders with an empty list
	return respond(ctx, http.StatusOK, echo.Map{
		"course_id": ctx.Param("courseID"),
		"grades":    []string{},
	})
}

func (api *portalApi) tests(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, echo.Map{
		"course_id": ctx.Param("courseID"),
		"tests":     []string{},
	})
}

func (api *portalApi) assignments(ctx echo.Context) error {
	courseID := ctx.Param("courseID")
	files, err := api.store.ListAssignments(courseID)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, echo.Map{
		"course_id":   courseID,
		"assignments": files,
	})
}

// ------------------------------ admin ------------------------------

func (api *portalApi) adminHome(ctx echo.Context) error {
	claims, _ := getSessionClaims(ctx)
	return respond(ctx, http.StatusOK, echo.Map{"username": claims.Username})
}

func (api *portalApi) documents(ctx echo.Context) error {
	// per-course material inventory across the whole catalog
	docs := make(map[string][]string)
	for _, f := range api.catalog.Faculties {
		for _, crs := range f.Courses {
			files, err := api.store.ListMaterials(crs.Code)
			if err != nil {
				return err
			}
			docs[crs.Code] = files
		}
	}
	return respond(ctx, http.StatusOK, echo.Map{"documents": docs})
}
