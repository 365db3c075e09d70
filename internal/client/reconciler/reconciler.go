// Package reconciler реализует оптимистичный кэш коллекций:
// мутация применяется к локальному состоянию сразу, а затем
// согласуется с ответом сервера или откатывается при ошибке.
//
// Каждая мутация проходит три фазы:
//  1. Speculate: изменение применяется синхронно под мьютексом.
//  2. Commit: вызов источника данных, без блокировки читателей.
//  3. Resolve: подтверждение или откат, строго в порядке выдачи для одного ID.
package reconciler

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/bookvault/internal/client/tempid"
	"github.com/iudanet/bookvault/internal/models"
)

// Option настраивает Reconciler
type Option func(*Reconciler)

// WithSnapshotStore подключает хранилище подтвержденных снимков
func WithSnapshotStore(store SnapshotStore) Option {
	return func(r *Reconciler) { r.store = store }
}

// WithJournal подключает журнал мутаций
func WithJournal(j Journal) Option {
	return func(r *Reconciler) { r.journal = j }
}

// WithValidator задает проверку записей для коллекции query
func WithValidator(query string, v Validator) Option {
	return func(r *Reconciler) { r.validators[query] = v }
}

// WithTempIDs задает генератор временных ID
func WithTempIDs(g *tempid.Generator) Option {
	return func(r *Reconciler) { r.ids = g }
}

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// pendingOp внутреннее состояние операции
type pendingOp struct {
	result     *models.Entity
	err        error
	ready      chan struct{} // закрывается, когда известен Target удаления временной записи
	dependents []*pendingOp  // удаления, выданные для временного ID этой вставки
	PendingOperation
	resolved bool
}

// laneID ключ очереди FIFO для операции
func (op *pendingOp) laneID() string {
	return op.ID
}

type queryState struct {
	inserts   map[string]*pendingOp   // временный ID -> вставка в полете
	pending   map[string]*pendingOp   // token -> операция
	lanes     map[string][]*pendingOp // ID -> операции в порядке выдачи
	deletedAt map[string]uint64       // надгробия: ID -> seq последнего удаления
	touchedAt map[string]uint64       // ID -> seq последней операции, вернувшей запись
	confirmed map[string]string       // временный ID -> серверный ID
	items     Collection
	version   uint64
	loaded    bool

	// Пока идет Fetch, подтвержденные результаты запоминаются, чтобы
	// наложить их поверх ответа, который мог их не увидеть
	resolutions uint64
	fetching    int
	effects     []fetchEffect
}

// fetchEffect подтвержденное изменение, примененное во время Fetch
type fetchEffect struct {
	upsert *models.Entity
	remove string
	at     uint64
}

// remember запоминает эффект, если есть загрузка в полете; вызывается под r.mu
func (st *queryState) remember(eff fetchEffect) {
	if st.fetching == 0 {
		return
	}
	eff.at = st.resolutions
	st.effects = append(st.effects, eff)
}

// replay накладывает на ответ сервера эффекты, примененные после mark; вызывается под r.mu
func (st *queryState) replay(fetched []models.Entity, mark uint64) []models.Entity {
	out := Collection(fetched)
	for _, eff := range st.effects {
		if eff.at <= mark {
			continue
		}
		if eff.remove != "" {
			out = ReconcileDelete(out, eff.remove)
			continue
		}
		if i := out.IndexOf(eff.upsert.ID); i >= 0 {
			c := out.Clone()
			c[i] = eff.upsert.Clone()
			out = c
			continue
		}
		out = append(out.Clone(), eff.upsert.Clone())
	}
	return out
}

func newQueryState() *queryState {
	return &queryState{
		inserts:   make(map[string]*pendingOp),
		pending:   make(map[string]*pendingOp),
		lanes:     make(map[string][]*pendingOp),
		deletedAt: make(map[string]uint64),
		touchedAt: make(map[string]uint64),
		confirmed: make(map[string]string),
	}
}

// Reconciler держит оптимистичный кэш для набора именованных запросов.
// Все изменения кэша сериализуются мьютексом; вызовы источника данных,
// журнала и хранилища выполняются вне его.
type Reconciler struct {
	source     DataSource
	store      SnapshotStore
	journal    Journal
	logger     *slog.Logger
	ids        *tempid.Generator
	now        func() time.Time
	validators map[string]Validator
	queries    map[string]*queryState
	tokens     map[string]string // token -> query
	listeners  map[int]func(Snapshot)
	published  map[string]uint64 // последняя опубликованная версия
	persisted  map[string]uint64 // последняя сохраненная версия
	seq        uint64
	nextListen int
	mu         sync.Mutex
	emitMu     sync.Mutex
}

// New создает реконсилятор поверх источника данных
func New(source DataSource, logger *slog.Logger, opts ...Option) *Reconciler {
	r := &Reconciler{
		source:     source,
		logger:     logger,
		ids:        tempid.New(),
		now:        time.Now,
		validators: make(map[string]Validator),
		queries:    make(map[string]*queryState),
		tokens:     make(map[string]string),
		listeners:  make(map[int]func(Snapshot)),
		published:  make(map[string]uint64),
		persisted:  make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// state возвращает состояние запроса; вызывается под r.mu
func (r *Reconciler) state(query string) *queryState {
	st, ok := r.queries[query]
	if !ok {
		st = newQueryState()
		r.queries[query] = st
	}
	return st
}

// snapshot строит снимок; вызывается под r.mu
func (r *Reconciler) snapshot(query string, st *queryState) Snapshot {
	return Snapshot{
		Query:    query,
		Entities: st.items.Clone(),
		Version:  st.version,
		Pending:  len(st.pending),
		Loaded:   st.loaded,
	}
}

// Snapshot возвращает текущее состояние коллекции
func (r *Reconciler) Snapshot(query string) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshot(query, r.state(query))
}

// Pending возвращает неразрешенные операции коллекции в порядке выдачи
func (r *Reconciler) Pending(query string) []PendingOperation {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.state(query)
	ops := make([]PendingOperation, 0, len(st.pending))
	for _, op := range st.pending {
		ops = append(ops, op.PendingOperation)
	}
	sortBySeq(ops)
	return ops
}

// Subscribe регистрирует слушателя изменений. Слушатель вызывается вне
// блокировки и получает только снимки с возрастающей версией.
// Возвращает функцию отписки.
func (r *Reconciler) Subscribe(fn func(Snapshot)) func() {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()

	id := r.nextListen
	r.nextListen++
	r.listeners[id] = fn

	return func() {
		r.emitMu.Lock()
		defer r.emitMu.Unlock()
		delete(r.listeners, id)
	}
}

// Fetch загружает коллекцию из источника данных.
// Неразрешенные спекулятивные изменения остаются примененными поверх нового состояния.
func (r *Reconciler) Fetch(ctx context.Context, query string) error {
	r.mu.Lock()
	st := r.state(query)
	mark := st.resolutions
	st.fetching++
	r.mu.Unlock()

	entities, err := r.source.FetchAll(ctx, query)

	r.mu.Lock()
	st.fetching--
	if err != nil {
		if st.fetching == 0 {
			st.effects = nil
		}
		r.mu.Unlock()
		return &TransportError{Op: "fetch", Query: query, Err: err}
	}

	// Ответ мог уйти с сервера раньше, чем подтвердились операции,
	// разрешенные за время запроса
	entities = st.replay(entities, mark)
	if st.fetching == 0 {
		st.effects = nil
	}
	st.items = r.overlay(query, st, entities)
	st.loaded = true
	st.version++
	snap := r.snapshot(query, st)
	confirmed := r.confirmedView(st)
	r.mu.Unlock()

	r.logger.Info("Collection fetched", "query", query, "count", len(entities), "version", snap.Version)
	r.publish(ctx, snap, confirmed, nil)

	return nil
}

// Restore загружает последний сохраненный снимок, если коллекция еще не загружена.
// Используется, когда источник данных недоступен.
func (r *Reconciler) Restore(ctx context.Context, query string) error {
	if r.store == nil {
		return ErrNoSnapshotStore
	}

	entities, err := r.store.LoadSnapshot(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	r.mu.Lock()
	st := r.state(query)
	if st.loaded {
		r.mu.Unlock()
		return nil
	}
	st.items = dedup(entities)
	st.loaded = true
	st.version++
	snap := r.snapshot(query, st)
	r.mu.Unlock()

	r.logger.Info("Collection restored from snapshot", "query", query, "count", len(snap.Entities))
	r.publish(ctx, snap, nil, nil)

	return nil
}

// overlay накладывает неразрешенные операции на свежие данные; вызывается под r.mu
func (r *Reconciler) overlay(query string, st *queryState, fetched []models.Entity) Collection {
	removed := make(map[string]bool)
	for _, op := range st.pending {
		if op.Kind == OpDelete {
			removed[op.ID] = true
			if op.Target != "" {
				removed[op.Target] = true
			}
		}
	}

	out := make(Collection, 0, len(fetched)+len(st.inserts))
	seen := make(map[string]bool, len(fetched))
	for _, e := range fetched {
		if removed[e.ID] {
			continue
		}
		if seen[e.ID] {
			r.logger.Warn("Duplicate id in fetched collection", "query", query, "id", e.ID)
			continue
		}
		seen[e.ID] = true
		out = append(out, e.Clone())
	}

	// Временные записи сохраняют свой относительный порядок
	for _, e := range st.items {
		if _, ok := st.inserts[e.ID]; ok && !seen[e.ID] {
			seen[e.ID] = true
			out = append(out, e)
		}
	}

	return out
}

// confirmedView возвращает коллекцию без временных записей; вызывается под r.mu
func (r *Reconciler) confirmedView(st *queryState) []models.Entity {
	out := make([]models.Entity, 0, len(st.items))
	for _, e := range st.items {
		if _, ok := st.inserts[e.ID]; ok {
			continue
		}
		if tempid.IsTemporary(e.ID) {
			continue
		}
		out = append(out, e.Clone())
	}
	return out
}

// BeginInsert выполняет фазу Speculate для вставки: назначает временный ID
// и сразу добавляет запись в коллекцию.
func (r *Reconciler) BeginInsert(ctx context.Context, query string, entity models.Entity) (PendingOperation, error) {
	if entity.ID != "" {
		return PendingOperation{}, &ValidationError{Query: query, Err: fmt.Errorf("new entity must not carry an id, got %q", entity.ID)}
	}
	if v, ok := r.validators[query]; ok {
		if err := v(entity); err != nil {
			return PendingOperation{}, &ValidationError{Query: query, Err: err}
		}
	}

	r.mu.Lock()
	st := r.state(query)
	if !st.loaded {
		r.mu.Unlock()
		return PendingOperation{}, fmt.Errorf("%s: %w", query, ErrNotLoaded)
	}

	tempID := r.ids.Next()
	temp := entity.WithID(tempID)
	items, err := ApplyOptimisticInsert(st.items, temp)
	if err != nil {
		r.mu.Unlock()
		return PendingOperation{}, err
	}

	r.seq++
	op := &pendingOp{PendingOperation: PendingOperation{
		IssuedAt: r.now(),
		Entity:   temp.Clone(),
		Token:    uuid.NewString(),
		Query:    query,
		ID:       tempID,
		Kind:     OpInsert,
		Index:    len(st.items),
		Seq:      r.seq,
		Found:    true,
	}}
	r.track(query, st, op)
	st.inserts[tempID] = op
	st.items = items
	st.version++
	snap := r.snapshot(query, st)
	r.mu.Unlock()

	r.logger.Debug("Optimistic insert applied", "query", query, "temp_id", tempID, "token", op.Token)
	r.publish(ctx, snap, nil, nil)

	return op.PendingOperation, nil
}

// BeginDelete выполняет фазу Speculate для удаления.
func (r *Reconciler) BeginDelete(ctx context.Context, query, id string) (PendingOperation, error) {
	op, err := r.beginDelete(ctx, query, id)
	if err != nil {
		return PendingOperation{}, err
	}
	return op.PendingOperation, nil
}

func (r *Reconciler) beginDelete(ctx context.Context, query, id string) (*pendingOp, error) {
	if id == "" {
		return nil, &ValidationError{Query: query, Err: ErrMissingID}
	}

	r.mu.Lock()
	st := r.state(query)
	if !st.loaded {
		r.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", query, ErrNotLoaded)
	}

	// Удаление по устаревшему временному ID переводим на серверный ID
	if serverID, ok := st.confirmed[id]; ok {
		id = serverID
	}

	items, removed, index, found := ApplyOptimisticDelete(st.items, id)
	insert, awaitingInsert := st.inserts[id]
	if !found && !awaitingInsert && len(st.lanes[id]) == 0 {
		r.mu.Unlock()
		return nil, fmt.Errorf("%s %s: %w", query, id, ErrEntityNotFound)
	}

	r.seq++
	op := &pendingOp{PendingOperation: PendingOperation{
		IssuedAt: r.now(),
		Entity:   removed,
		Token:    uuid.NewString(),
		Query:    query,
		ID:       id,
		Target:   id,
		Kind:     OpDelete,
		Index:    index,
		Seq:      r.seq,
		Found:    found,
	}}

	if awaitingInsert {
		// Серверный ID станет известен только после подтверждения вставки
		op.Target = ""
		op.ready = make(chan struct{})
		insert.dependents = append(insert.dependents, op)
	}

	r.track(query, st, op)
	st.deletedAt[id] = op.Seq
	st.touchedAt[id] = op.Seq
	st.items = items
	st.version++
	snap := r.snapshot(query, st)
	r.mu.Unlock()

	r.logger.Debug("Optimistic delete applied",
		"query", query, "id", id, "token", op.Token, "found", found, "awaiting_insert", awaitingInsert)
	r.publish(ctx, snap, nil, nil)

	return op, nil
}

// track регистрирует операцию; вызывается под r.mu
func (r *Reconciler) track(query string, st *queryState, op *pendingOp) {
	st.pending[op.Token] = op
	st.lanes[op.laneID()] = append(st.lanes[op.laneID()], op)
	r.tokens[op.Token] = query
}

// Resolve передает результат удаленного вызова операции token.
// Это единственная точка согласования: результат применяется ровно один раз,
// в порядке выдачи операций для одного ID. Результат, пришедший раньше
// предшественника, буферизуется. Повторный или устаревший вызов игнорируется
// и возвращает false.
func (r *Reconciler) Resolve(ctx context.Context, token string, result *models.Entity, err error) bool {
	r.mu.Lock()
	query, ok := r.tokens[token]
	if !ok {
		r.mu.Unlock()
		r.logger.Debug("Ignoring resolution for unknown or settled operation", "token", token)
		return false
	}
	st := r.state(query)
	op := st.pending[token]
	if op == nil || op.resolved {
		r.mu.Unlock()
		r.logger.Debug("Ignoring duplicate resolution", "token", token)
		return false
	}

	if err == nil && op.Kind == OpInsert && result == nil {
		err = ErrEmptyResult
	}
	op.resolved = true
	op.err = err
	if result != nil {
		res := result.Clone()
		op.result = &res
	}

	entries := r.drain(st, op.laneID())
	var (
		snap      Snapshot
		confirmed []models.Entity
	)
	if len(entries) > 0 {
		st.version++
		snap = r.snapshot(query, st)
		confirmed = r.confirmedView(st)
	}
	r.mu.Unlock()

	if len(entries) > 0 {
		r.publish(ctx, snap, confirmed, entries)
	}

	return true
}

// drain применяет готовые результаты из головы очереди; вызывается под r.mu
func (r *Reconciler) drain(st *queryState, lane string) []*models.JournalEntry {
	var entries []*models.JournalEntry

	queue := st.lanes[lane]
	for len(queue) > 0 && queue[0].resolved {
		head := queue[0]
		queue = queue[1:]

		entries = append(entries, r.apply(st, head, queue))
		delete(st.pending, head.Token)
		delete(r.tokens, head.Token)
	}

	if len(queue) == 0 {
		delete(st.lanes, lane)
	} else {
		st.lanes[lane] = queue
	}

	// Надгробия нужны только вставкам в полете, метки touched только удалениям
	if len(st.inserts) == 0 {
		clear(st.deletedAt)
	}
	if len(st.pending) == 0 {
		clear(st.touchedAt)
		clear(st.confirmed)
	}

	return entries
}

// apply применяет результат одной операции; вызывается под r.mu
func (r *Reconciler) apply(st *queryState, op *pendingOp, later []*pendingOp) *models.JournalEntry {
	entry := &models.JournalEntry{
		IssuedAt:   op.IssuedAt,
		ResolvedAt: r.now(),
		Token:      op.Token,
		Query:      op.Query,
		Kind:       string(op.Kind),
		EntityID:   op.ID,
	}
	if op.err != nil {
		entry.Error = op.err.Error()
	}

	st.resolutions++
	switch op.Kind {
	case OpInsert:
		r.applyInsert(st, op, entry)
	case OpDelete:
		r.applyDelete(st, op, later, entry)
	}

	return entry
}

func (r *Reconciler) applyInsert(st *queryState, op *pendingOp, entry *models.JournalEntry) {
	delete(st.inserts, op.ID)

	if op.err != nil {
		st.items = Rollback(st.items, op.PendingOperation)
		for _, dep := range op.dependents {
			// Записи больше нет, откатывать зависимому удалению нечего
			dep.Target = ""
			dep.Found = false
			close(dep.ready)
		}
		entry.Status = models.JournalRolledBack
		r.logger.Warn("Insert rolled back", "query", op.Query, "temp_id", op.ID, "error", op.err)
		return
	}

	server := *op.result
	entry.ServerID = server.ID
	st.confirmed[op.ID] = server.ID

	tempDeleted := st.deletedAt[op.ID] > op.Seq
	serverDeleted := st.deletedAt[server.ID] > op.Seq

	switch {
	case tempDeleted || serverDeleted:
		// Удаление выдано позже вставки и побеждает ее подтверждение
		// Серверная копия могла прийти с Fetch раньше подтверждения
		st.items = ReconcileDelete(st.items, op.ID)
		st.items = ReconcileDelete(st.items, server.ID)
		st.remember(fetchEffect{remove: server.ID})
		entry.Status = models.JournalSuperseded
		r.logger.Debug("Insert confirmation superseded by delete",
			"query", op.Query, "temp_id", op.ID, "server_id", server.ID)
	default:
		st.items = ReconcileInsert(st.items, op.ID, server)
		st.remember(fetchEffect{upsert: &server})
		if st.touchedAt[server.ID] < op.Seq {
			st.touchedAt[server.ID] = op.Seq
		}
		entry.Status = models.JournalConfirmed
		r.logger.Debug("Insert confirmed", "query", op.Query, "temp_id", op.ID, "server_id", server.ID)
	}

	for _, dep := range op.dependents {
		dep.Target = server.ID
		if dep.Found {
			dep.Entity = server.Clone()
		}
		close(dep.ready)
	}
}

func (r *Reconciler) applyDelete(st *queryState, op *pendingOp, later []*pendingOp, entry *models.JournalEntry) {
	entry.ServerID = op.Target

	if op.err == nil {
		if op.Target != "" && st.touchedAt[op.Target] <= op.Seq {
			st.items = ReconcileDelete(st.items, op.Target)
			st.remember(fetchEffect{remove: op.Target})
		}
		entry.Status = models.JournalConfirmed
		r.logger.Debug("Delete confirmed", "query", op.Query, "id", op.ID, "target", op.Target)
		return
	}

	entry.Status = models.JournalRolledBack
	r.logger.Warn("Delete rolled back", "query", op.Query, "id", op.ID, "error", op.err)

	if st.deletedAt[op.ID] == op.Seq {
		delete(st.deletedAt, op.ID)
	}
	if !op.Found {
		return
	}

	// Более позднее удаление того же ID еще в полете: передаем ему запись
	// вместо возврата в коллекцию
	for _, next := range later {
		if next.Kind == OpDelete && !next.Found {
			next.Found = true
			next.Entity = op.Entity
			next.Index = op.Index
			return
		}
	}

	st.items = Rollback(st.items, op.PendingOperation)
}

// Insert выполняет полный цикл оптимистичной вставки и возвращает
// подтвержденную сервером запись. Ошибка транспорта возвращается
// как *TransportError после отката.
func (r *Reconciler) Insert(ctx context.Context, query string, entity models.Entity) (models.Entity, error) {
	op, err := r.BeginInsert(ctx, query, entity)
	if err != nil {
		return models.Entity{}, err
	}

	content := entity.Clone()
	result, err := r.source.Mutate(ctx, Mutation{Kind: OpInsert, Query: query, Entity: content})
	if err == nil && result == nil {
		err = ErrEmptyResult
	}
	r.Resolve(ctx, op.Token, result, err)

	if err != nil {
		return models.Entity{}, &TransportError{Op: "insert", Query: query, Err: err}
	}
	return result.Clone(), nil
}

// Delete выполняет полный цикл оптимистичного удаления.
// Если запись еще ждет подтверждения вставки, удаление дожидается
// серверного ID и удаляет запись уже на сервере.
func (r *Reconciler) Delete(ctx context.Context, query, id string) error {
	op, err := r.beginDelete(ctx, query, id)
	if err != nil {
		return err
	}

	target := op.Target
	if op.ready != nil {
		select {
		case <-op.ready:
		case <-ctx.Done():
			r.abandonDelete(ctx, op)
			return &TransportError{Op: "delete", Query: query, Err: ctx.Err()}
		}
		r.mu.Lock()
		target = op.Target
		r.mu.Unlock()
	}

	if target == "" {
		// Вставка не состоялась, на сервере удалять нечего
		r.Resolve(ctx, op.Token, nil, nil)
		return nil
	}

	result, err := r.source.Mutate(ctx, Mutation{Kind: OpDelete, Query: query, ID: target})
	r.Resolve(ctx, op.Token, result, err)

	if err != nil {
		return &TransportError{Op: "delete", Query: query, Err: err}
	}
	return nil
}

// abandonDelete откатывает удаление, которое не дождалось подтверждения вставки.
// Вставка подтверждается как обычно, а запись возвращается в коллекцию
// уже с серверным ID.
func (r *Reconciler) abandonDelete(ctx context.Context, op *pendingOp) {
	r.mu.Lock()
	if st, ok := r.queries[op.Query]; ok && st.deletedAt[op.ID] == op.Seq {
		delete(st.deletedAt, op.ID)
	}
	r.mu.Unlock()

	r.logger.Warn("Delete abandoned while waiting for insert confirmation",
		"query", op.Query, "id", op.ID, "error", ctx.Err())
	r.Resolve(context.WithoutCancel(ctx), op.Token, nil, ctx.Err())
}

// publish рассылает снимок слушателям, пишет журнал и сохраняет подтвержденное состояние.
// Устаревшие версии не публикуются и не сохраняются.
func (r *Reconciler) publish(ctx context.Context, snap Snapshot, confirmed []models.Entity, entries []*models.JournalEntry) {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()

	if r.journal != nil {
		for _, e := range entries {
			if err := r.journal.Record(ctx, e); err != nil {
				r.logger.Warn("Failed to record journal entry", "token", e.Token, "error", err)
			}
		}
	}

	if snap.Version <= r.published[snap.Query] {
		return
	}
	r.published[snap.Query] = snap.Version

	for _, fn := range r.listeners {
		fn(snap)
	}

	if r.store == nil || confirmed == nil {
		return
	}
	if snap.Version <= r.persisted[snap.Query] {
		return
	}
	if err := r.store.SaveSnapshot(ctx, snap.Query, confirmed); err != nil {
		// Кэш в памяти остается верным, сохранится при следующем изменении
		r.logger.Warn("Failed to save snapshot", "query", snap.Query, "error", err)
		return
	}
	r.persisted[snap.Query] = snap.Version
}

// IsValidation сообщает, является ли err ошибкой валидации
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransport сообщает, является ли err ошибкой транспорта
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func dedup(entities []models.Entity) Collection {
	out := make(Collection, 0, len(entities))
	seen := make(map[string]bool, len(entities))
	for _, e := range entities {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e.Clone())
	}
	return out
}

func sortBySeq(ops []PendingOperation) {
	slices.SortFunc(ops, func(a, b PendingOperation) int {
		return cmp.Compare(a.Seq, b.Seq)
	})
}
