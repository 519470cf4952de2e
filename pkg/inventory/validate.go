package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/marmos91/dittonas/pkg/controlplane/models"
	"github.com/marmos91/dittonas/pkg/storagetree"
)

// ErrInvalidDocument wraps every validation failure.
var ErrInvalidDocument = errors.New("invalid inventory document")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags first, then the references between entries
// and the shape of every volume's dataset hierarchy. Nothing is written
// unless Validate succeeds.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidationErrors(verrs)
		}
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	volumes := make(map[string]struct{}, len(d.Volumes))
	for i := range d.Volumes {
		v := &d.Volumes[i]
		if _, dup := volumes[v.Name]; dup {
			return invalid("volumes[%d]: duplicate volume %q", i, v.Name)
		}
		volumes[v.Name] = struct{}{}

		if err := checkHierarchy(v); err != nil {
			return invalid("volumes[%d] %q: %v", i, v.Name, err)
		}
		zvols := make(map[string]struct{}, len(v.ZVols))
		for j, z := range v.ZVols {
			if !strings.HasPrefix(z.Name, v.Name+"/") {
				return invalid("volumes[%d].zvols[%d]: %q is not inside %q", i, j, z.Name, v.Name)
			}
			if _, dup := zvols[z.Name]; dup {
				return invalid("volumes[%d].zvols[%d]: duplicate zvol %q", i, j, z.Name)
			}
			zvols[z.Name] = struct{}{}
		}
	}

	disks := make(map[string]struct{}, len(d.Disks))
	for _, disk := range d.Disks {
		disks[disk.Name] = struct{}{}
	}

	scrubbed := make(map[string]struct{}, len(d.Scrubs))
	for i, s := range d.Scrubs {
		if _, ok := volumes[s.Volume]; !ok {
			return invalid("scrubs[%d]: unknown volume %q", i, s.Volume)
		}
		if _, dup := scrubbed[s.Volume]; dup {
			return invalid("scrubs[%d]: volume %q already has a scrub", i, s.Volume)
		}
		scrubbed[s.Volume] = struct{}{}
	}

	interfaces := make(map[string]struct{}, len(d.Interfaces))
	for _, nic := range d.Interfaces {
		interfaces[nic.Interface] = struct{}{}
	}

	nics := make(map[string]struct{})
	for i, l := range d.LAGGs {
		if _, ok := interfaces[l.Interface]; !ok {
			return invalid("laggs[%d]: unknown interface %q", i, l.Interface)
		}
		for j, m := range l.Members {
			if _, dup := nics[m.PhysNIC]; dup {
				return invalid("laggs[%d].members[%d]: %q is already a member", i, j, m.PhysNIC)
			}
			nics[m.PhysNIC] = struct{}{}
		}
	}

	for i, t := range d.SMARTTests {
		if t.Schedule.Minute != "" {
			return invalid("smart_tests[%d].schedule.minute: SMART tests run hourly at most", i)
		}
		for _, name := range t.Disks {
			if _, ok := disks[name]; !ok {
				return invalid("smart_tests[%d]: unknown disk %q", i, name)
			}
		}
	}

	return nil
}

// checkHierarchy runs the volume's datasets through the same hierarchy
// builder the API uses, so a document that imports always projects.
func checkHierarchy(v *VolumeDoc) error {
	rows := make([]models.Dataset, 0, len(v.Datasets))
	for _, ds := range v.Datasets {
		rows = append(rows, models.Dataset{Name: ds.Name})
	}
	_, err := storagetree.BuildHierarchy(v.Name, models.TreeDatasets(rows))
	return err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDocument, fmt.Sprintf(format, args...))
}

// formatValidationErrors renders every failed field on its own line as
// "Field.Path: failed 'tag' (param)".
func formatValidationErrors(verrs validator.ValidationErrors) error {
	lines := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		line := fmt.Sprintf("%s: failed '%s'", strings.TrimPrefix(fe.Namespace(), "Document."), fe.Tag())
		if fe.Param() != "" {
			line += fmt.Sprintf(" (%s)", fe.Param())
		}
		lines = append(lines, line)
	}
	return fmt.Errorf("%w:\n%s", ErrInvalidDocument, strings.Join(lines, "\n"))
}
