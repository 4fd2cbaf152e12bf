/*
 * Orchestrator - read, change, check, write and reload a zone file.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package commit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bind-dns-manager/internal/metrics"
	"bind-dns-manager/internal/remote"
	"bind-dns-manager/internal/validation"
	"bind-dns-manager/internal/zonefile"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultReloadCommand = "rndc reload {zone}"
	DefaultTimeout       = 30 * time.Second
)

// Results recorded in the commit metrics.
const (
	resultOK        = "ok"
	resultUnchanged = "unchanged"
	resultWarning   = "warning"
	resultFailed    = "failed"
)

// Validator checks a proposed zone text before it is written.
type Validator interface {
	Validate(ctx context.Context, ex remote.Executor, origin, text string) error
}

// Options configures an Orchestrator.
type Options struct {
	// Scheme selects how the SOA serial is advanced.
	Scheme zonefile.SerialScheme
	// Timeout bounds every single remote operation. Zero disables it.
	Timeout time.Duration
	// Reload is the reload command; {zone} is replaced by the zone name.
	Reload string
	// Verify optionally confirms the reload; an empty command skips it.
	Verify string
}

// Orchestrator runs commits. Runs on the same zone file of the same target
// are serialized; other runs proceed in parallel.
type Orchestrator struct {
	validator Validator
	locks     *lockTable
	scheme    zonefile.SerialScheme
	timeout   time.Duration
	reload    remote.CommandTemplate
	verify    remote.CommandTemplate
	now       func() time.Time
}

// New returns an Orchestrator that checks zones with v.
func New(v Validator, opts Options) *Orchestrator {
	if opts.Scheme == "" {
		opts.Scheme = zonefile.SerialDate
	}
	if opts.Reload == "" {
		opts.Reload = DefaultReloadCommand
	}
	return &Orchestrator{
		validator: v,
		locks:     newLockTable(),
		scheme:    opts.Scheme,
		timeout:   opts.Timeout,
		reload:    remote.ParseCommandTemplate(opts.Reload),
		verify:    remote.ParseCommandTemplate(opts.Verify),
		now:       time.Now,
	}
}

// Request names the zone file to change and the change to apply.
type Request struct {
	// Target is the id of the server target holding the file.
	Target string
	// Origin is the zone name.
	Origin string
	// Path is the zone file on the target.
	Path string
	// Mutation is applied to the parsed zone. Nil leaves it unchanged.
	Mutation Mutation
}

// Result describes a run that reached the writing stage or ended without
// changes.
type Result struct {
	Origin string
	Path   string
	// Stages lists the stages entered, in order.
	Stages []Stage
	// Changed is false when the mutation left the zone as it was.
	Changed bool
	// Committed is set once the new text is on the target.
	Committed      bool
	PreviousSerial uint32
	Serial         uint32
	PreviousText   string
	Text           string
	Zone           *zonefile.Zone
}

// Last returns the final stage of the run.
func (r *Result) Last() Stage {
	if len(r.Stages) == 0 {
		return StageIdle
	}
	return r.Stages[len(r.Stages)-1]
}

type run struct {
	o      *Orchestrator
	ctx    context.Context
	ex     remote.Executor
	req    Request
	res    *Result
	logger *log.Entry
}

func (o *Orchestrator) newRun(ctx context.Context, ex remote.Executor, req Request) *run {
	return &run{
		o:   o,
		ctx: ctx,
		ex:  ex,
		req: req,
		res: &Result{Origin: req.Origin, Path: req.Path},
		logger: log.WithFields(log.Fields{
			"target": req.Target,
			"zone":   req.Origin,
			"file":   req.Path,
		}),
	}
}

func (r *run) enter(s Stage) {
	r.res.Stages = append(r.res.Stages, s)
	r.logger.Debugf("Commit entering stage %s", s)
}

func (r *run) current() Stage {
	return r.res.Last()
}

// fail moves the run to the failed state.
func (r *run) fail(reason string, err error) *CommitError {
	stage := r.current()
	r.enter(StageFailed)
	cerr := &CommitError{
		Stage:        stage,
		Reason:       reason,
		Err:          err,
		PreviousText: r.res.PreviousText,
	}
	var f *validation.Failure
	if errors.As(err, &f) {
		cerr.Diagnostics = f.Diagnostics
	}
	metrics.GetOpenMetricsInstance().IncCommitsTotal(string(stage), resultFailed)
	r.logger.WithField("reason", reason).Errorf("Commit failed while %s: %v", stage, err)
	return cerr
}

// warn ends a committed run whose reload or verification failed.
func (r *run) warn(reason string, err error, output string) *ReloadWarning {
	stage := r.current()
	r.enter(StageFailed)
	metrics.GetOpenMetricsInstance().IncCommitsTotal(string(stage), resultWarning)
	r.logger.WithField("reason", reason).Warnf("Zone written but not live, reload it manually: %v", err)
	return &ReloadWarning{Stage: stage, Reason: reason, Err: err, Output: output}
}

// cancelled fails the run if the caller gave up and the current stage can
// still be abandoned.
func (r *run) cancelled() *CommitError {
	if !r.current().Cancellable() {
		return nil
	}
	if err := r.ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return r.fail(ReasonTimeout, err)
		}
		return r.fail(ReasonCancelled, err)
	}
	return nil
}

// abandoned fails a run that gave up waiting for its lock.
func (r *run) abandoned(err error) *CommitError {
	if cerr := r.cancelled(); cerr != nil {
		return cerr
	}
	return r.fail(ReasonCancelled, err)
}

// opContext bounds one remote operation.
func (r *run) opContext(parent context.Context) (context.Context, context.CancelFunc) {
	if r.o.timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, r.o.timeout)
}

// Commit applies req.Mutation to the zone file and publishes the result. The
// file is only written after the checker accepted the new text. Once writing
// started the run ignores ctx until it ends.
//
// A *CommitError reports a failed run. A *ReloadWarning comes with a result
// whose text was written but is not yet served.
func (o *Orchestrator) Commit(ctx context.Context, ex remote.Executor, req Request) (*Result, error) {
	r := o.newRun(ctx, ex, req)
	r.enter(StageReading)

	release, err := o.locks.acquire(ctx, lockKey{target: req.Target, path: req.Path})
	if err != nil {
		return nil, r.abandoned(err)
	}
	defer release()

	if cerr := r.cancelled(); cerr != nil {
		return nil, cerr
	}
	z, cerr := r.read()
	if cerr != nil {
		return nil, cerr
	}

	if cerr := r.cancelled(); cerr != nil {
		return nil, cerr
	}
	r.enter(StageMutating)
	next := z
	if req.Mutation != nil {
		next, err = req.Mutation(z)
		if err != nil {
			return nil, r.fail(mutationReason(err), err)
		}
	}

	if cerr := r.cancelled(); cerr != nil {
		return nil, cerr
	}
	r.enter(StageSerializing)
	if !next.Dirty() {
		r.res.Zone = next
		r.res.Serial = r.res.PreviousSerial
		r.res.Text = r.res.PreviousText
		r.enter(StageDone)
		metrics.GetOpenMetricsInstance().IncCommitsTotal(string(StageDone), resultUnchanged)
		r.logger.Info("Zone unchanged, nothing to commit")
		return r.res, nil
	}
	r.res.Changed = true
	r.res.Serial = next.BumpSerial(o.scheme, o.now())
	text := zonefile.Serialize(next)
	if _, err := zonefile.Parse(text, req.Origin); err != nil {
		return nil, r.fail(ReasonSerialize, err)
	}
	r.res.Text = text
	r.res.Zone = next

	if cerr := r.validate(); cerr != nil {
		return nil, cerr
	}

	if cerr := r.cancelled(); cerr != nil {
		return nil, cerr
	}
	if cerr := r.write(req.Path, text); cerr != nil {
		return nil, cerr
	}

	if w := r.publish(); w != nil {
		return r.res, w
	}
	r.enter(StageDone)
	metrics.GetOpenMetricsInstance().IncCommitsTotal(string(StageDone), resultOK)
	r.logger.WithField("serial", r.res.Serial).Info("Zone committed")
	return r.res, nil
}

// read loads and parses the zone file.
func (r *run) read() (*zonefile.Zone, *CommitError) {
	octx, cancel := r.opContext(r.ctx)
	data, err := r.ex.ReadFile(octx, r.req.Path)
	cancel()
	if err != nil {
		return nil, r.fail(remoteReason(err, ReasonRemoteRead), err)
	}
	r.res.PreviousText = string(data)

	if cerr := r.cancelled(); cerr != nil {
		return nil, cerr
	}
	r.enter(StageParsing)
	z, err := zonefile.Parse(r.res.PreviousText, r.req.Origin)
	if err != nil {
		return nil, r.fail(ReasonParse, err)
	}
	r.res.PreviousSerial = z.SOA().Serial
	return z, nil
}

// validate submits the proposed text to the checker.
func (r *run) validate() *CommitError {
	if cerr := r.cancelled(); cerr != nil {
		return cerr
	}
	r.enter(StageValidating)
	octx, cancel := r.opContext(r.ctx)
	defer cancel()
	if err := r.o.validator.Validate(octx, r.ex, r.req.Origin, r.res.Text); err != nil {
		if validation.IsFailure(err) {
			return r.fail(ReasonValidation, err)
		}
		return r.fail(remoteReason(err, ReasonValidation), err)
	}
	return nil
}

// write replaces the zone file. It is not cancellable.
func (r *run) write(path, text string) *CommitError {
	r.enter(StageWriting)
	octx, cancel := r.opContext(context.WithoutCancel(r.ctx))
	defer cancel()
	if err := r.ex.WriteFile(octx, path, []byte(text)); err != nil {
		cerr := r.fail(remoteReason(err, ReasonWrite), err)
		cerr.RemoteMayBeInconsistent = true
		return cerr
	}
	r.res.Committed = true
	return nil
}

// publish reloads the zone and verifies the reload.
func (r *run) publish() *ReloadWarning {
	zone := zoneName(r.req.Origin)
	ctx := context.WithoutCancel(r.ctx)

	r.enter(StageReloading)
	if out, err := r.command(ctx, r.o.reload.Expand(zone, r.req.Path)); err != nil {
		return r.warn(remoteReason(err, ReasonReload), err, out)
	}

	r.enter(StageVerifying)
	if r.o.verify.Empty() {
		return nil
	}
	if out, err := r.command(ctx, r.o.verify.Expand(zone, r.req.Path)); err != nil {
		return r.warn(remoteReason(err, ReasonVerify), err, out)
	}
	return nil
}

// command runs argv and treats a non-zero exit code as an error.
func (r *run) command(ctx context.Context, argv []string) (string, error) {
	octx, cancel := r.opContext(ctx)
	defer cancel()
	res, err := r.ex.RunCommand(octx, argv)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return res.Output(), fmt.Errorf("%s exited with code %d", argv[0], res.ExitCode)
	}
	return res.Output(), nil
}

// Provision writes the new zone z to path. It refuses to overwrite an
// existing file and checks the text before writing it.
func (o *Orchestrator) Provision(ctx context.Context, ex remote.Executor, target, path string, z *zonefile.Zone) (*Result, error) {
	req := Request{Target: target, Origin: z.Origin(), Path: path}
	r := o.newRun(ctx, ex, req)
	r.enter(StageReading)

	release, err := o.locks.acquire(ctx, lockKey{target: target, path: path})
	if err != nil {
		return nil, r.abandoned(err)
	}
	defer release()

	octx, cancel := r.opContext(ctx)
	exists, err := remote.FileExists(octx, ex, path)
	cancel()
	if err != nil {
		return nil, r.fail(remoteReason(err, ReasonRemoteRead), err)
	}
	if exists {
		return nil, r.fail(ReasonExists, fmt.Errorf("zone file %s already exists", path))
	}

	if cerr := r.cancelled(); cerr != nil {
		return nil, cerr
	}
	r.enter(StageSerializing)
	text := zonefile.Serialize(z)
	r.res.Changed = true
	r.res.Serial = z.SOA().Serial
	r.res.Text = text
	r.res.Zone = z

	if cerr := r.validate(); cerr != nil {
		return nil, cerr
	}
	if cerr := r.cancelled(); cerr != nil {
		return nil, cerr
	}
	if cerr := r.write(path, text); cerr != nil {
		return nil, cerr
	}
	if w := r.publish(); w != nil {
		return r.res, w
	}
	r.enter(StageDone)
	metrics.GetOpenMetricsInstance().IncCommitsTotal(string(StageDone), resultOK)
	r.logger.WithField("serial", r.res.Serial).Info("Zone provisioned")
	return r.res, nil
}

// Load reads and parses a zone file without changing it.
func (o *Orchestrator) Load(ctx context.Context, ex remote.Executor, origin, path string) (*zonefile.Zone, error) {
	r := o.newRun(ctx, ex, Request{Origin: origin, Path: path})
	octx, cancel := r.opContext(ctx)
	defer cancel()
	data, err := ex.ReadFile(octx, path)
	if err != nil {
		return nil, &CommitError{Stage: StageReading, Reason: remoteReason(err, ReasonRemoteRead), Err: err}
	}
	z, err := zonefile.Parse(string(data), origin)
	if err != nil {
		return nil, &CommitError{Stage: StageParsing, Reason: ReasonParse, Err: err, PreviousText: string(data)}
	}
	return z, nil
}

// zoneName returns the origin in the form given to rndc.
func zoneName(origin string) string {
	if len(origin) > 1 && origin[len(origin)-1] == '.' {
		return origin[:len(origin)-1]
	}
	return origin
}
