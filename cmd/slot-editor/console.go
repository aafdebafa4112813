package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/course-admin-api/internal/client"
	"github.com/noah-isme/course-admin-api/internal/dto"
	"github.com/noah-isme/course-admin-api/internal/models"
	"github.com/noah-isme/course-admin-api/internal/slotset"
)

var errQuit = errors.New("quit")

type adminAPI interface {
	ListCourses(ctx context.Context, search, term string) ([]models.Course, error)
	ListTerms(ctx context.Context) ([]string, error)
	CreateCourse(ctx context.Context, req dto.CourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, courseID, term string) error
}

const helpText = `commands:
  terms                            list known terms
  term <name>                      select the term for new courses and listings
  courses [search]                 list courses in the selected term
  open <course-id>                 edit the slots of a stored course
  new                              start a draft course
  add <Day> <start-hour> <end-hour> add a meeting, e.g. add Tuesday 9 11
  rm <index>                       remove the meeting at index
  ls                               show meetings
  create <code> <section> <name>   store the draft course and its meetings
  save                             retry storing meetings left over by a failed create
  delete                           delete the open course and its meetings
  quit
`

type console struct {
	api     adminAPI
	manager *slotset.Manager
	out     io.Writer
	logger  *zap.Logger
	term    string
}

func newConsole(api adminAPI, manager *slotset.Manager, out io.Writer, logger *zap.Logger, term string) *console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &console{api: api, manager: manager, out: out, logger: logger, term: term}
}

// run reads commands line by line until EOF or quit.
func (c *console) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	c.prompt()
	for scanner.Scan() {
		args := strings.Fields(scanner.Text())
		if len(args) > 0 {
			err := c.exec(ctx, args)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(c.out, "error: %v\n", err)
			}
		}
		c.prompt()
	}
	return scanner.Err()
}

func (c *console) prompt() {
	course := c.manager.CourseID()
	if course == "" {
		course = "draft"
	}
	fmt.Fprintf(c.out, "[%s %s]> ", course, c.term)
}

func (c *console) exec(ctx context.Context, args []string) error {
	switch args[0] {
	case "help", "?":
		fmt.Fprint(c.out, helpText)
		return nil
	case "quit", "exit":
		return errQuit
	case "terms":
		return c.listTerms(ctx)
	case "term":
		if len(args) != 2 {
			return errors.New("usage: term <name>")
		}
		c.term = args[1]
		return nil
	case "courses":
		return c.listCourses(ctx, strings.Join(args[1:], " "))
	case "open":
		if len(args) != 2 {
			return errors.New("usage: open <course-id>")
		}
		return c.open(ctx, args[1])
	case "new":
		_, err := c.manager.Load(ctx, "", c.term)
		return err
	case "add":
		return c.add(ctx, args[1:])
	case "rm":
		return c.remove(ctx, args[1:])
	case "ls":
		c.printSlots()
		return nil
	case "create":
		return c.create(ctx, args[1:])
	case "save":
		return c.save(ctx)
	case "delete":
		return c.deleteCourse(ctx)
	default:
		return fmt.Errorf("unknown command %q, try help", args[0])
	}
}

func (c *console) listTerms(ctx context.Context) error {
	terms, err := c.api.ListTerms(ctx)
	if err != nil {
		return err
	}
	for _, term := range terms {
		fmt.Fprintln(c.out, term)
	}
	if c.term == "" {
		c.term = client.DefaultTerm("", terms)
	}
	return nil
}

func (c *console) listCourses(ctx context.Context, search string) error {
	courses, err := c.api.ListCourses(ctx, search, c.term)
	if err != nil {
		return err
	}
	for _, course := range courses {
		fmt.Fprintf(c.out, "%s\t%s %s\t%s\t%s\n", course.ID, course.CourseCode, course.SectionName, course.CourseName, course.Term)
	}
	return nil
}

func (c *console) open(ctx context.Context, courseID string) error {
	slots, err := c.manager.Load(ctx, courseID, c.term)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%d meetings\n", len(slots))
	c.printSlots()
	return nil
}

func (c *console) add(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: add <Day> <start-hour> <end-hour>")
	}
	start, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("start hour: %w", err)
	}
	end, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("end hour: %w", err)
	}
	if _, err := c.manager.AddSlot(ctx, args[0], start, end); err != nil {
		return err
	}
	c.printSlots()
	return nil
}

func (c *console) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: rm <index>")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	if _, err := c.manager.RemoveSlot(ctx, index); err != nil {
		return err
	}
	c.printSlots()
	return nil
}

func (c *console) printSlots() {
	for i, slot := range c.manager.Slots() {
		state := "stored"
		if !slot.Persisted() {
			state = "draft"
		}
		fmt.Fprintf(c.out, "%d\t%s\t%s\n", i, c.manager.Describe(i), state)
	}
}

func (c *console) create(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errors.New("usage: create <code> <section> <name>")
	}
	if c.manager.Persisted() {
		return fmt.Errorf("course %s is already stored", c.manager.CourseID())
	}
	if c.term == "" {
		terms, err := c.api.ListTerms(ctx)
		if err != nil {
			return err
		}
		c.term = client.DefaultTerm("", terms)
	}

	course, err := c.api.CreateCourse(ctx, dto.CourseRequest{
		CourseCode:  args[0],
		SectionName: args[1],
		CourseName:  strings.Join(args[2:], " "),
		Term:        c.term,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created course %s\n", course.ID)
	return c.flush(ctx, course.ID, course.Term)
}

func (c *console) save(ctx context.Context) error {
	if !c.manager.Persisted() {
		return errors.New("draft course: use create first")
	}
	return c.flush(ctx, c.manager.CourseID(), c.manager.Term())
}

func (c *console) flush(ctx context.Context, courseID, term string) error {
	result, err := c.manager.Flush(ctx, courseID, term)
	if err != nil {
		var partial *slotset.PartialFlushError
		if errors.As(err, &partial) {
			c.logger.Warn("meetings partially stored",
				zap.String("course_id", courseID),
				zap.Ints("flushed", result.Flushed),
				zap.Int("failed_index", result.FailedIndex),
				zap.Ints("not_attempted", result.NotAttempted),
			)
			fmt.Fprintf(c.out, "stored %d meetings, meeting %d failed, run save to retry\n", len(result.Flushed), result.FailedIndex)
		}
		return err
	}
	fmt.Fprintf(c.out, "stored %d meetings\n", len(result.Flushed))
	return nil
}

func (c *console) deleteCourse(ctx context.Context) error {
	if !c.manager.Persisted() {
		return errors.New("no stored course is open")
	}
	courseID := c.manager.CourseID()
	if err := c.api.DeleteCourse(ctx, courseID, c.manager.Term()); err != nil {
		return err
	}
	if _, err := c.manager.Load(ctx, "", c.term); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "deleted course %s\n", courseID)
	return nil
}
