package sqlinline

const presetColumns = `id::text, name, category, coalesce(description, ''), coalesce(icon, ''), is_active,
       settings, created_at, updated_at`

const QListPresets = `--sql 430bedd8-ca55-4c9f-85d2-bb9800ba8dfb
select ` + presetColumns + `
from director_presets
where ($1::bool = false or is_active)
order by category, name;
`

const QSelectPresetByID = `--sql f72e434b-92ec-469b-a70a-f96901b48527
select ` + presetColumns + `
from director_presets
where id = $1::uuid;
`

const QInsertPreset = `--sql 25409d2d-2dd2-4ab1-817d-1d640e994f7b
insert into director_presets (id, name, category, description, icon, is_active, settings, created_at, updated_at)
values ($1::uuid, $2::text, $3::text, nullif($4::text, ''), $5::text, $6::bool, $7::jsonb, now(), now())
returning created_at, updated_at;
`

const QUpdatePreset = `--sql 851844de-7043-4526-880a-e22532a2c919
update director_presets set
    name = $2::text,
    category = $3::text,
    description = nullif($4::text, ''),
    icon = $5::text,
    is_active = $6::bool,
    settings = $7::jsonb,
    updated_at = now()
where id = $1::uuid
returning created_at, updated_at;
`

const QDeletePreset = `--sql 8240623b-56dc-45fc-8157-684bdf65d6b5
delete from director_presets
where id = $1::uuid;
`
